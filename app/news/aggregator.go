package news

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SourceClient is one provider adapter. Implementations map the
// canonical category to the provider's own taxonomy and normalize the
// response into a Batch.
type SourceClient interface {
	Key() string
	Label() string
	Fetch(ctx context.Context, category string, from, to *time.Time) (Batch, error)
}

// Aggregator fans a query out to the selected source adapters and
// merges whatever succeeded. A single provider outage must not blank
// the whole feed, so failed calls are logged and discarded.
type Aggregator struct {
	clients map[string]SourceClient
	order   []string
}

func NewAggregator(clients []SourceClient) *Aggregator {
	byKey := make(map[string]SourceClient, len(clients))
	order := make([]string, 0, len(clients))
	for _, c := range clients {
		byKey[c.Key()] = c
		order = append(order, c.Key())
	}
	return &Aggregator{clients: byKey, order: order}
}

// Labels returns the display name for every registered source key.
func (a *Aggregator) Labels() map[string]string {
	labels := make(map[string]string, len(a.clients))
	for key, c := range a.clients {
		labels[key] = c.Label()
	}
	return labels
}

type fetchResult struct {
	batch Batch
	err   error
	key   string
}

// Fetch runs one (source x category) call per pair concurrently and
// waits for all of them to settle. Articles of succeeded calls are
// merged in launch order; order within a call is preserved and no
// cross-source deduplication is attempted. If every call fails the
// result is an empty batch, not an error.
func (a *Aggregator) Fetch(ctx context.Context, q Query) Batch {
	sources := q.Sources
	if len(sources) == 0 {
		sources = a.order
	}
	categories := q.Categories
	if len(categories) == 0 {
		categories = []string{DefaultCategory}
	}

	type call struct {
		client   SourceClient
		category string
	}
	var calls []call
	for _, key := range sources {
		client, ok := a.clients[key]
		if !ok {
			slog.Warn("Unknown source requested, skipping", "source", key)
			continue
		}
		for _, category := range categories {
			calls = append(calls, call{client: client, category: category})
		}
	}

	results := make([]fetchResult, len(calls))
	var wg sync.WaitGroup
	for i, c := range calls {
		wg.Add(1)
		go func(i int, c call) {
			defer wg.Done()
			batch, err := c.client.Fetch(ctx, c.category, q.DateFrom, q.DateTo)
			results[i] = fetchResult{batch: batch, err: err, key: c.client.Key()}
		}(i, c)
	}
	wg.Wait()

	merged := Batch{Status: "ok", Articles: []Article{}}
	failed := 0
	for _, r := range results {
		if r.err != nil {
			slog.Warn("Source fetch failed", "source", r.key, "error", r.err)
			failed++
			continue
		}
		merged.Articles = append(merged.Articles, r.batch.Articles...)
		merged.TotalResults += r.batch.TotalResults
	}

	if failed > 0 && failed == len(calls) && len(calls) > 0 {
		slog.Error("All source fetches failed", "calls", len(calls))
	}

	return merged
}
