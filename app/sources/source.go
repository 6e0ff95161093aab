package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/RSAK56/NewsStream/app/cfg"
	"github.com/RSAK56/NewsStream/app/news"
)

// descriptionPreviewLength bounds descriptions derived from body text.
const descriptionPreviewLength = 200

// Registry wires one adapter per configured provider. Providers
// disabled via their configuration file are left out.
type Registry struct {
	clients []news.SourceClient
}

func NewRegistry(configCache *ConfigCache, httpClient *http.Client) *Registry {
	appCfg := cfg.Get()

	candidates := []struct {
		key    string
		apiKey string
		build  func(config *ProviderConfig, apiKey string, httpClient *http.Client, userAgent string) news.SourceClient
	}{
		{news.SourceNewsAPI, appCfg.NewsAPIKey, func(c *ProviderConfig, k string, h *http.Client, ua string) news.SourceClient {
			return NewNewsAPIClient(c, k, h, ua)
		}},
		{news.SourceGuardian, appCfg.GuardianAPIKey, func(c *ProviderConfig, k string, h *http.Client, ua string) news.SourceClient {
			return NewGuardianClient(c, k, h, ua)
		}},
		{news.SourceNYTimes, appCfg.NYTimesAPIKey, func(c *ProviderConfig, k string, h *http.Client, ua string) news.SourceClient {
			return NewNYTimesClient(c, k, h, ua)
		}},
	}

	r := &Registry{}
	for _, candidate := range candidates {
		config := configCache.GetConfig(candidate.key)
		if !config.Enabled {
			slog.Info("Source disabled by configuration, skipping", "source", candidate.key)
			continue
		}
		if candidate.apiKey == "" {
			slog.Warn("No API key configured for source", "source", candidate.key)
		}
		r.clients = append(r.clients, candidate.build(config, candidate.apiKey, httpClient, appCfg.UserAgent))
	}

	return r
}

func (r *Registry) Clients() []news.SourceClient {
	return r.clients
}

func (r *Registry) Labels() map[string]string {
	labels := make(map[string]string, len(r.clients))
	for _, c := range r.clients {
		labels[c.Key()] = c.Label()
	}
	return labels
}

// fetchJSON performs one GET against a provider endpoint and decodes
// the response. Any transport failure or non-success status becomes a
// SourceFetchError carrying the provider key.
func fetchJSON(ctx context.Context, httpClient *http.Client, sourceKey, userAgent, url string, timeout time.Duration, out interface{}) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return &news.SourceFetchError{Source: sourceKey, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &news.SourceFetchError{Source: sourceKey, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &news.SourceFetchError{Source: sourceKey, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// truncatePreview bounds body-derived descriptions, marking the cut
// with an ellipsis.
func truncatePreview(s string) string {
	if utf8.RuneCountInString(s) <= descriptionPreviewLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:descriptionPreviewLength]) + "..."
}

// parseArticleTime accepts the timestamp formats the providers emit.
func parseArticleTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
