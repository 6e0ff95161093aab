package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/RSAK56/NewsStream/app/news"
	"github.com/RSAK56/NewsStream/app/prefs"
)

const extractTimeout = 30 * time.Second

// ExtractContentTask fetches a saved article's page and attaches its
// readable text to the saved record so the article survives link rot.
type ExtractContentTask struct {
	Task
	UserID           string
	ArticleID        string
	ArticleURL       string
	httpClient       *http.Client
	contentExtractor *news.ContentExtractor
	prefsStore       *prefs.Store
	userAgent        string
}

func NewExtractContentTask(userID string, saved news.SavedArticle, httpClient *http.Client,
	contentExtractor *news.ContentExtractor, prefsStore *prefs.Store, userAgent string) *ExtractContentTask {
	return &ExtractContentTask{
		Task:             NewTask(TaskTypeExtractContent, saved.URL),
		UserID:           userID,
		ArticleID:        saved.ID,
		ArticleURL:       saved.URL,
		httpClient:       httpClient,
		contentExtractor: contentExtractor,
		prefsStore:       prefsStore,
		userAgent:        userAgent,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if t.ArticleURL == "" {
		return fmt.Errorf("saved article has no URL")
	}

	data, err := t.fetchArticlePage(ctx, t.ArticleURL)
	if err != nil {
		return fmt.Errorf("failed to fetch article page: %w", err)
	}

	content, err := t.contentExtractor.Run(data)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	if err := t.prefsStore.SetExtractedContent(ctx, t.UserID, t.ArticleID, content); err != nil {
		return fmt.Errorf("failed to store extracted content: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"url", t.ArticleURL,
		"duration", t.GetDuration(),
		"content_length", len(content))

	return nil
}

func (t *ExtractContentTask) fetchArticlePage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
