package sources

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/RSAK56/NewsStream/app/news"
)

// NewsAPIClient fetches top headlines from newsapi.org. NewsAPI's
// category vocabulary is the canonical one, so no mapping is applied.
type NewsAPIClient struct {
	config     *ProviderConfig
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

func NewNewsAPIClient(config *ProviderConfig, apiKey string, httpClient *http.Client, userAgent string) *NewsAPIClient {
	return &NewsAPIClient{
		config:     config,
		apiKey:     apiKey,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (c *NewsAPIClient) Key() string {
	return news.SourceNewsAPI
}

func (c *NewsAPIClient) Label() string {
	return "NewsAPI"
}

func (c *NewsAPIClient) Fetch(ctx context.Context, category string, from, to *time.Time) (news.Batch, error) {
	mapped := category
	if override, ok := c.config.Categories[category]; ok {
		mapped = override
	}
	if mapped == "" {
		mapped = c.config.DefaultCategory
	}

	params := url.Values{
		"country":  {"us"},
		"category": {mapped},
		"apiKey":   {c.apiKey},
	}

	var resp newsAPIResponse
	err := fetchJSON(ctx, c.httpClient, c.Key(), c.userAgent, c.config.Endpoint+"?"+params.Encode(),
		time.Duration(c.config.Timeout)*time.Second, &resp)
	if err != nil {
		return news.Batch{}, err
	}

	articles := make([]news.Article, 0, len(resp.Articles))
	dropped := 0
	for _, item := range resp.Articles {
		// A record missing its identity fields is dropped, not fatal
		if item.Title == "" || item.URL == "" {
			dropped++
			continue
		}

		publishedAt, ok := parseArticleTime(item.PublishedAt)
		if !ok {
			dropped++
			continue
		}

		articles = append(articles, news.Article{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			ImageURL:    item.URLToImage,
			PublishedAt: publishedAt,
			Category:    category,
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
