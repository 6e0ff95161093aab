package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RSAK56/NewsStream/app/database"
	"github.com/RSAK56/NewsStream/app/news"
)

// Maximum retries for a read-merge-write that keeps losing the
// revision race to another session.
const maxWriteAttempts = 3

// WriteError reports a failed remote preference write.
type WriteError struct {
	UserID string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("preference write for user %s: %v", e.UserID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Store owns the authoritative UserPreferences for signed-in users and
// mediates all reads and writes against the stored record. Writes are
// read-merge-write guarded by a revision counter, so concurrent updates
// from two sessions retry instead of silently losing one of them.
type Store struct {
	repo database.PreferenceRepository
}

func New(repo database.PreferenceRepository) *Store {
	return &Store{repo: repo}
}

// Get returns the user's preferences, lazily creating the default
// record on first access (typically right after sign-in).
func (s *Store) Get(ctx context.Context, userID string) (news.UserPreferences, error) {
	prefs, _, err := s.load(ctx, userID)
	return prefs, err
}

func (s *Store) load(ctx context.Context, userID string) (news.UserPreferences, int64, error) {
	record, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return news.UserPreferences{}, 0, fmt.Errorf("failed to read preferences: %w", err)
	}

	if record == nil {
		defaults := news.DefaultPreferences()
		blob, err := json.Marshal(defaults)
		if err != nil {
			return news.UserPreferences{}, 0, fmt.Errorf("failed to encode default preferences: %w", err)
		}
		record, err = s.repo.InsertPreferences(ctx, userID, string(blob))
		if err != nil {
			return news.UserPreferences{}, 0, &WriteError{UserID: userID, Err: err}
		}
		return defaults, record.Revision, nil
	}

	var prefs news.UserPreferences
	if err := json.Unmarshal([]byte(record.Preferences), &prefs); err != nil {
		return news.UserPreferences{}, 0, fmt.Errorf("failed to decode preferences: %w", err)
	}
	normalize(&prefs)

	return prefs, record.Revision, nil
}

// mutate runs one revision-guarded read-merge-write cycle. The apply
// callback returns false to signal there is nothing to write.
func (s *Store) mutate(ctx context.Context, userID string, apply func(*news.UserPreferences) bool) (news.UserPreferences, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		prefs, revision, err := s.load(ctx, userID)
		if err != nil {
			return news.UserPreferences{}, err
		}

		if !apply(&prefs) {
			return prefs, nil
		}

		blob, err := json.Marshal(prefs)
		if err != nil {
			return news.UserPreferences{}, fmt.Errorf("failed to encode preferences: %w", err)
		}

		ok, err := s.repo.UpdatePreferences(ctx, userID, string(blob), revision)
		if err != nil {
			return news.UserPreferences{}, &WriteError{UserID: userID, Err: err}
		}
		if ok {
			return prefs, nil
		}

		slog.Debug("Preference revision conflict, retrying", "user_id", userID, "attempt", attempt+1)
	}

	return news.UserPreferences{}, &WriteError{UserID: userID, Err: fmt.Errorf("revision conflict persisted after %d attempts", maxWriteAttempts)}
}

// SaveArticle appends the article to the saved collection under a fresh
// ID. URL is the identity key: saving an already-saved URL returns the
// existing entry instead of duplicating it.
func (s *Store) SaveArticle(ctx context.Context, userID string, article news.Article) (news.SavedArticle, error) {
	saved := news.SavedArticle{
		Article: article,
		ID:      uuid.NewString(),
		IsSaved: true,
	}

	_, err := s.mutate(ctx, userID, func(prefs *news.UserPreferences) bool {
		for _, existing := range prefs.SavedArticles {
			if strings.EqualFold(existing.URL, article.URL) {
				saved = existing
				return false
			}
		}
		prefs.SavedArticles = append(prefs.SavedArticles, saved)
		return true
	})
	if err != nil {
		return news.SavedArticle{}, err
	}

	return saved, nil
}

// UnsaveArticle removes the saved entry matching the URL
// (case-insensitive). Removing an absent URL is a no-op.
func (s *Store) UnsaveArticle(ctx context.Context, userID, articleURL string) error {
	_, err := s.mutate(ctx, userID, func(prefs *news.UserPreferences) bool {
		kept := prefs.SavedArticles[:0]
		for _, existing := range prefs.SavedArticles {
			if !strings.EqualFold(existing.URL, articleURL) {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(prefs.SavedArticles) {
			return false
		}
		prefs.SavedArticles = kept
		return true
	})
	return err
}

// SavedArticles lists the user's saved collection in save order.
func (s *Store) SavedArticles(ctx context.Context, userID string) ([]news.SavedArticle, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return prefs.SavedArticles, nil
}

// Update shallow-merges the patch into the stored preferences, with
// newsFilters merged one level deeper so updating sources does not
// clobber categories.
func (s *Store) Update(ctx context.Context, userID string, patch news.PreferencesPatch) (news.UserPreferences, error) {
	return s.mutate(ctx, userID, func(prefs *news.UserPreferences) bool {
		if patch.DarkMode != nil {
			prefs.DarkMode = *patch.DarkMode
		}
		if patch.SavedArticles != nil {
			prefs.SavedArticles = *patch.SavedArticles
		}
		if patch.NewsFilters != nil {
			if patch.NewsFilters.Sources != nil {
				prefs.NewsFilters.Sources = *patch.NewsFilters.Sources
			}
			if patch.NewsFilters.Categories != nil {
				prefs.NewsFilters.Categories = *patch.NewsFilters.Categories
			}
		}
		normalize(prefs)
		return true
	})
}

// SetExtractedContent attaches readable text to a saved article. The
// entry may have been unsaved while extraction ran; that is not an
// error.
func (s *Store) SetExtractedContent(ctx context.Context, userID, articleID, content string) error {
	now := time.Now().UTC()
	_, err := s.mutate(ctx, userID, func(prefs *news.UserPreferences) bool {
		for i := range prefs.SavedArticles {
			if prefs.SavedArticles[i].ID == articleID {
				prefs.SavedArticles[i].Content = content
				prefs.SavedArticles[i].ExtractedAt = &now
				return true
			}
		}
		return false
	})
	return err
}

// normalize keeps collection fields non-nil so stored blobs always
// carry arrays, matching the record format of existing data.
func normalize(prefs *news.UserPreferences) {
	if prefs.SavedArticles == nil {
		prefs.SavedArticles = []news.SavedArticle{}
	}
	if prefs.NewsFilters.Sources == nil {
		prefs.NewsFilters.Sources = []string{}
	}
	if prefs.NewsFilters.Categories == nil {
		prefs.NewsFilters.Categories = []string{}
	}
}
