package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RSAK56/NewsStream/app/news"
)

type RefreshQueryTask struct {
	Task
	Query       news.Query
	aggregator  *news.Aggregator
	resultCache *news.ResultCache
}

func NewRefreshQueryTask(query news.Query, aggregator *news.Aggregator, resultCache *news.ResultCache) *RefreshQueryTask {
	return &RefreshQueryTask{
		Task:        NewTask(TaskTypeRefreshQuery, query.Signature()),
		Query:       query,
		aggregator:  aggregator,
		resultCache: resultCache,
	}
}

func (t *RefreshQueryTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	batch := t.aggregator.Fetch(ctx, t.Query)

	// An empty batch here means every provider call failed; keep the
	// previous cached result and retry instead of blanking the feed.
	if len(batch.Articles) == 0 && batch.TotalResults == 0 {
		return fmt.Errorf("refresh produced an empty batch for %s", t.Query.Signature())
	}

	t.resultCache.Set(t.Query, batch)

	slog.Info("Task completed",
		"type", t.GetType(),
		"query", t.GetSubject(),
		"duration", t.GetDuration(),
		"articles", len(batch.Articles),
		"total", batch.TotalResults)

	return nil
}
