package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RSAK56/NewsStream/app/auth"
	"github.com/RSAK56/NewsStream/app/database"
	"github.com/RSAK56/NewsStream/app/news"
	"github.com/RSAK56/NewsStream/app/prefs"
	"github.com/RSAK56/NewsStream/app/tasks"
)

const dateLayout = "2006-01-02"

func NewHandler(aggregator *news.Aggregator, filterer *news.Filterer, resultCache *news.ResultCache,
	authService *auth.Service, prefsStore *prefs.Store, scheduler tasks.TaskSchedulerInterface,
	httpClient *http.Client, userRepo database.UserRepository, sessionRepo database.SessionRepository,
	prefRepo database.PreferenceRepository) *Handler {
	return &Handler{
		aggregator:  aggregator,
		filterer:    filterer,
		resultCache: resultCache,
		authService: authService,
		prefsStore:  prefsStore,
		scheduler:   scheduler,
		extractor:   news.NewContentExtractor(),
		httpClient:  httpClient,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		prefRepo:    prefRepo,
	}
}

// GetNews serves the aggregated, filtered article list. Saved-only mode
// runs the same predicates over the caller's saved collection instead
// of a fresh fetch.
func (h *Handler) GetNews(c *gin.Context) {
	state, err := h.parseFilterState(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if state.ShowSavedOnly {
		h.getSavedNews(c, state)
		return
	}

	query := news.Query{
		Sources:    state.Sources,
		Categories: state.Categories,
		DateFrom:   state.DateFrom,
		DateTo:     state.DateTo,
	}

	batch, cached := h.resultCache.Get(query)
	if !cached {
		batch = h.aggregator.Fetch(c.Request.Context(), query)
		h.resultCache.Set(query, batch)
	}

	filtered := h.filterer.Run(batch.Articles, state)

	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Header("X-Result-Count", strconv.Itoa(len(filtered)))

	c.JSON(http.StatusOK, news.Batch{
		Status:       "ok",
		TotalResults: batch.TotalResults,
		Articles:     filtered,
	})
}

func (h *Handler) getSavedNews(c *gin.Context, state news.FilterState) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusOK, news.Batch{Status: "ok", Articles: []news.Article{}})
		return
	}

	saved, err := h.prefsStore.SavedArticles(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to load saved articles", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved articles"})
		return
	}

	articles := make([]news.Article, 0, len(saved))
	for _, s := range saved {
		articles = append(articles, s.Article)
	}

	filtered := h.filterer.Run(articles, state)

	c.Header("X-Result-Count", strconv.Itoa(len(filtered)))
	c.JSON(http.StatusOK, news.Batch{
		Status:       "ok",
		TotalResults: len(filtered),
		Articles:     filtered,
	})
}

func (h *Handler) parseFilterState(c *gin.Context) (news.FilterState, error) {
	state := news.FilterState{
		Search:        c.Query("search"),
		Sources:       splitCSV(c.Query("sources")),
		Categories:    splitCSV(c.Query("categories")),
		ShowSavedOnly: c.Query("saved") == "true",
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return news.FilterState{}, errors.New("invalid 'from' date, expected YYYY-MM-DD")
		}
		state.DateFrom = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return news.FilterState{}, errors.New("invalid 'to' date, expected YYYY-MM-DD")
		}
		state.DateTo = &t
	}

	return state, nil
}

func (h *Handler) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The confirmation link would normally go out by email; it is
	// returned here so deployments without a mailer still work.
	c.JSON(http.StatusAccepted, gin.H{
		"message":            "Please check your email for a confirmation link to complete your registration.",
		"confirmation_token": token,
	})
}

func (h *Handler) Confirm(c *gin.Context) {
	token := c.Param("token")

	user, err := h.authService.Confirm(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Confirmation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Confirmation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email confirmed, you can sign in now.",
		"email":   user.Email,
	})
}

func (h *Handler) SignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	session, user, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, auth.ErrConfirmationPending):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			slog.Error("Sign-in failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
		}
		return
	}

	// Fetch (or lazily create) the preference record so the client can
	// seed its filters from it.
	preferences, err := h.prefsStore.Get(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to load preferences on sign-in", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, signInResponse{
		Token:       session.Token,
		User:        userResponse{ID: user.ID, Email: user.Email},
		Preferences: preferences,
	})
}

func (h *Handler) SignOut(c *gin.Context) {
	token := sessionToken(c)
	if err := h.authService.SignOut(c.Request.Context(), token); err != nil {
		slog.Error("Sign-out failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-out failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetPreferences(c *gin.Context) {
	user := currentUser(c)

	preferences, err := h.prefsStore.Get(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to load preferences", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, preferences)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	user := currentUser(c)

	var patch news.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferences payload"})
		return
	}

	preferences, err := h.prefsStore.Update(c.Request.Context(), user.ID, patch)
	if err != nil {
		var writeErr *prefs.WriteError
		if errors.As(err, &writeErr) {
			slog.Error("Preference write failed", "user_id", user.ID, "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, preferences)
}

// SaveArticle persists an article to the caller's saved collection. An
// unauthenticated attempt is a silent no-op, not an error.
func (h *Handler) SaveArticle(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var article news.Article
	if err := c.ShouldBindJSON(&article); err != nil || article.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article payload"})
		return
	}

	saved, err := h.prefsStore.SaveArticle(c.Request.Context(), user.ID, article)
	if err != nil {
		slog.Error("Failed to save article", "user_id", user.ID, "url", article.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save article"})
		return
	}

	extractTask := tasks.NewExtractContentTask(user.ID, saved, h.httpClient, h.extractor, h.prefsStore, c.Request.UserAgent())
	if err := h.scheduler.EnqueueTask(extractTask); err != nil {
		slog.Warn("Failed to enqueue ExtractContentTask", "url", saved.URL, "error", err)
	}

	c.JSON(http.StatusCreated, saved)
}

// UnsaveArticle removes a saved article by URL. Unknown URLs and
// unauthenticated attempts are no-ops.
func (h *Handler) UnsaveArticle(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Status(http.StatusNoContent)
		return
	}

	articleURL := c.Query("url")
	if articleURL == "" {
		var req unsaveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "article url is required"})
			return
		}
		articleURL = req.URL
	}

	if err := h.prefsStore.UnsaveArticle(c.Request.Context(), user.ID, articleURL); err != nil {
		slog.Error("Failed to unsave article", "user_id", user.ID, "url", articleURL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsave article"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	ctx := c.Request.Context()
	if userCount, err := h.userRepo.GetUserCount(ctx); err == nil {
		health["users"] = userCount
	}
	if sessionCount, err := h.sessionRepo.GetSessionCount(ctx); err == nil {
		health["sessions"] = sessionCount
	}
	health["cached_queries"] = h.resultCache.Len()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats := map[string]interface{}{
		"sources":        h.aggregator.Labels(),
		"cached_queries": h.resultCache.Len(),
	}
	if userCount, err := h.userRepo.GetUserCount(ctx); err == nil {
		stats["users"] = userCount
	}
	if prefCount, err := h.prefRepo.GetPreferenceCount(ctx); err == nil {
		stats["preference_records"] = prefCount
	}

	c.JSON(http.StatusOK, stats)
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
