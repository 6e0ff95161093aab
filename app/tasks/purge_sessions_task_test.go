package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/RSAK56/NewsStream/app/database"
	"github.com/RSAK56/NewsStream/app/news"
)

type countingSessionRepo struct {
	purged int64
	calls  int
}

func (r *countingSessionRepo) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*database.Session, error) {
	return nil, nil
}

func (r *countingSessionRepo) GetSession(ctx context.Context, token string) (*database.Session, error) {
	return nil, nil
}

func (r *countingSessionRepo) DeleteSession(ctx context.Context, token string) error {
	return nil
}

func (r *countingSessionRepo) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	r.calls++
	return r.purged, nil
}

func (r *countingSessionRepo) GetSessionCount(ctx context.Context) (int, error) {
	return 0, nil
}

func TestPurgeSessionsTask(t *testing.T) {
	repo := &countingSessionRepo{purged: 3}
	cache := news.NewResultCache(5 * time.Millisecond)
	cache.Set(news.Query{Categories: []string{"science"}}, news.Batch{Status: "ok"})
	time.Sleep(15 * time.Millisecond)

	task := NewPurgeSessionsTask(repo, cache)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if repo.calls != 1 {
		t.Errorf("Expected one purge call, got %d", repo.calls)
	}
	if cache.Len() != 0 {
		t.Errorf("Expected expired cache entries purged, %d remain", cache.Len())
	}
}
