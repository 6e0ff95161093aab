package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/RSAK56/NewsStream/app/news"
)

// NYTimesClient fetches from the NYT Top Stories v2 API. The canonical
// category is translated to a Top Stories section; Top Stories has no
// date parameters, so date bounds are applied downstream by the filter
// engine.
type NYTimesClient struct {
	config     *ProviderConfig
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

type nytimesResponse struct {
	Status     string `json:"status"`
	NumResults int    `json:"num_results"`
	Results    []struct {
		Section       string `json:"section"`
		Title         string `json:"title"`
		Abstract      string `json:"abstract"`
		URL           string `json:"url"`
		PublishedDate string `json:"published_date"`
		Multimedia    []struct {
			URL    string `json:"url"`
			Format string `json:"format"`
		} `json:"multimedia"`
	} `json:"results"`
}

func NewNYTimesClient(config *ProviderConfig, apiKey string, httpClient *http.Client, userAgent string) *NYTimesClient {
	return &NYTimesClient{
		config:     config,
		apiKey:     apiKey,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (c *NYTimesClient) Key() string {
	return news.SourceNYTimes
}

func (c *NYTimesClient) Label() string {
	return "The New York Times"
}

func (c *NYTimesClient) mapCategory(category string) string {
	if override, ok := c.config.Categories[category]; ok {
		return override
	}
	return NYTimesSection(category)
}

func (c *NYTimesClient) Fetch(ctx context.Context, category string, from, to *time.Time) (news.Batch, error) {
	params := url.Values{
		"api-key": {c.apiKey},
	}
	endpoint := fmt.Sprintf("%s/%s.json?%s", c.config.Endpoint, c.mapCategory(category), params.Encode())

	var resp nytimesResponse
	err := fetchJSON(ctx, c.httpClient, c.Key(), c.userAgent, endpoint,
		time.Duration(c.config.Timeout)*time.Second, &resp)
	if err != nil {
		return news.Batch{}, err
	}

	articles := make([]news.Article, 0, len(resp.Results))
	dropped := 0
	for _, item := range resp.Results {
		if item.Title == "" || item.URL == "" {
			dropped++
			continue
		}

		publishedAt, ok := parseArticleTime(item.PublishedDate)
		if !ok {
			dropped++
			continue
		}

		imageURL := ""
		if len(item.Multimedia) > 0 {
			imageURL = item.Multimedia[0].URL
		}

		articleCategory := item.Section
		if articleCategory == "" {
			articleCategory = category
		}

		articles = append(articles, news.Article{
			Title:       item.Title,
			Description: item.Abstract,
			URL:         item.URL,
			ImageURL:    imageURL,
			PublishedAt: publishedAt,
			Category:    articleCategory,
			Source:      news.ArticleSource{Name: c.Label()},
		})
	}

	if dropped > 0 {
		slog.Debug("Dropped malformed records", "source", c.Key(), "count", dropped)
	}

	return news.Batch{
		Status:       "ok",
		TotalResults: len(articles),
		Articles:     articles,
	}, nil
}
