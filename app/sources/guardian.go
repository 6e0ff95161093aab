package sources

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/RSAK56/NewsStream/app/news"
)

// GuardianClient fetches from the Guardian content search API. The
// canonical category is translated to a Guardian section ID, and date
// bounds are forwarded as from-date/to-date.
type GuardianClient struct {
	config     *ProviderConfig
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

type guardianResponse struct {
	Response struct {
		Status  string `json:"status"`
		Total   int    `json:"total"`
		Results []struct {
			ID                 string `json:"id"`
			SectionID          string `json:"sectionId"`
			SectionName        string `json:"sectionName"`
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             struct {
				Thumbnail string `json:"thumbnail"`
				BodyText  string `json:"bodyText"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

func NewGuardianClient(config *ProviderConfig, apiKey string, httpClient *http.Client, userAgent string) *GuardianClient {
	return &GuardianClient{
		config:     config,
		apiKey:     apiKey,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (c *GuardianClient) Key() string {
	return news.SourceGuardian
}

func (c *GuardianClient) Label() string {
	return "The Guardian"
}

func (c *GuardianClient) mapCategory(category string) string {
	if override, ok := c.config.Categories[category]; ok {
		return override
	}
	return GuardianSection(category)
}

func (c *GuardianClient) Fetch(ctx context.Context, category string, from, to *time.Time) (news.Batch, error) {
	params := url.Values{
		"api-key":     {c.apiKey},
		"section":     {c.mapCategory(category)},
		"show-fields": {"thumbnail,bodyText"},
	}
	if from != nil {
		params.Set("from-date", from.Format("2006-01-02"))
	}
	if to != nil {
		params.Set("to-date", to.Format("2006-01-02"))
	}

	var resp guardianResponse
	err := fetchJSON(ctx, c.httpClient, c.Key(), c.userAgent, c.config.Endpoint+"?"+params.Encode(),
		time.Duration(c.config.Timeout)*time.Second, &resp)
	if err != nil {
		return news.Batch{}, err
	}

	articles := make([]news.Article, 0, len(resp.Response.Results))
	dropped := 0
	for _, item := range resp.Response.Results {
		if item.WebTitle == "" || item.WebURL == "" {
			dropped++
			continue
		}

		publishedAt, ok := parseArticleTime(item.WebPublicationDate)
		if !ok {
			dropped++
			continue
		}

		articleCategory := item.SectionID
		if articleCategory == "" {
			articleCategory = category
		}

		articles = append(articles, news.Article{
			Title:       item.WebTitle,
			Description: truncatePreview(item.Fields.BodyText),
			URL:         item.WebURL,
			ImageURL:    item.Fields.Thumbnail,
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
		TotalResults: resp.Response.Total,
		Articles:     articles,
	}, nil
}
