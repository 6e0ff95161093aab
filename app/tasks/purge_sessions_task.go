package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RSAK56/NewsStream/app/database"
	"github.com/RSAK56/NewsStream/app/news"
)

type PurgeSessionsTask struct {
	Task
	sessions    database.SessionRepository
	resultCache *news.ResultCache
}

func NewPurgeSessionsTask(sessions database.SessionRepository, resultCache *news.ResultCache) *PurgeSessionsTask {
	return &PurgeSessionsTask{
		Task:        NewTask(TaskTypePurgeSessions, "sessions"),
		sessions:    sessions,
		resultCache: resultCache,
	}
}

func (t *PurgeSessionsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	removed, err := t.sessions.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired sessions: %w", err)
	}

	purgedEntries := t.resultCache.Purge()

	if removed > 0 || purgedEntries > 0 {
		slog.Info("Task completed",
			"type", t.GetType(),
			"duration", t.GetDuration(),
			"sessions_removed", removed,
			"cache_entries_purged", purgedEntries)
	}

	return nil
}
