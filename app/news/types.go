package news

import (
	"sort"
	"strings"
	"time"
)

// Canonical source keys and categories. Keys are the internal identifiers,
// distinct from the human-readable labels the providers report.

const (
	SourceNewsAPI  = "newsapi"
	SourceGuardian = "guardian"
	SourceNYTimes  = "nytimes"
)

var SourceKeys = []string{SourceNewsAPI, SourceGuardian, SourceNYTimes}

var Categories = []string{
	"general",
	"business",
	"technology",
	"sports",
	"entertainment",
	"health",
	"science",
}

const DefaultCategory = "general"

// ArticleSource carries the provider's display name. Kept as a nested
// object so stored preference blobs stay compatible with existing records.
type ArticleSource struct {
	Name string `json:"name"`
}

type Article struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	ImageURL    string        `json:"urlToImage,omitempty"`
	PublishedAt time.Time     `json:"publishedAt"`
	Category    string        `json:"category,omitempty"`
	Source      ArticleSource `json:"source"`
}

// SavedArticle is an Article persisted to a user's preference record.
// ID is assigned at save time; URL remains the identity key.
type SavedArticle struct {
	Article
	ID          string     `json:"id"`
	IsSaved     bool       `json:"isSaved"`
	Content     string     `json:"content,omitempty"`
	ExtractedAt *time.Time `json:"extractedAt,omitempty"`
}

// Batch is the result of one adapter call or an aggregate of several:
// articles plus the total count as reported by the provider(s).
type Batch struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

type NewsFilters struct {
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
}

// UserPreferences is the per-user record persisted by the preference
// store. Field names must not change: they are the stored blob format.
type UserPreferences struct {
	DarkMode      bool           `json:"darkMode"`
	SavedArticles []SavedArticle `json:"savedArticles"`
	NewsFilters   NewsFilters    `json:"newsFilters"`
}

func DefaultPreferences() UserPreferences {
	return UserPreferences{
		DarkMode:      false,
		SavedArticles: []SavedArticle{},
		NewsFilters: NewsFilters{
			Sources:    []string{},
			Categories: []string{},
		},
	}
}

// NewsFiltersPatch updates sources and categories independently, so
// changing one never clobbers the other.
type NewsFiltersPatch struct {
	Sources    *[]string `json:"sources,omitempty"`
	Categories *[]string `json:"categories,omitempty"`
}

// PreferencesPatch is a partial update to UserPreferences. Nil fields
// are left untouched; NewsFilters is merged one level deeper.
type PreferencesPatch struct {
	DarkMode      *bool             `json:"darkMode,omitempty"`
	SavedArticles *[]SavedArticle   `json:"savedArticles,omitempty"`
	NewsFilters   *NewsFiltersPatch `json:"newsFilters,omitempty"`
}

// FilterState is the per-request filter configuration. Zero values mean
// "no constraint" for every field except Sources, whose empty value also
// means unconstrained.
type FilterState struct {
	Search        string
	Sources       []string
	Categories    []string
	DateFrom      *time.Time
	DateTo        *time.Time
	ShowSavedOnly bool
}

// NewFilterState returns session defaults: all sources selected, no
// categories, no search, no date bounds.
func NewFilterState() FilterState {
	return FilterState{
		Sources:    append([]string(nil), SourceKeys...),
		Categories: []string{},
	}
}

// Query identifies one aggregate fetch. Results are keyed by the full
// parameter tuple so a superseded request's result is ignored by
// identity mismatch rather than explicit cancellation.
type Query struct {
	Sources    []string
	Categories []string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Signature returns a stable identity string for the query. Sources and
// categories are sorted so parameter order does not split cache entries.
func (q Query) Signature() string {
	sources := append([]string(nil), q.Sources...)
	categories := append([]string(nil), q.Categories...)
	sort.Strings(sources)
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString(strings.Join(sources, ","))
	b.WriteString("|")
	b.WriteString(strings.Join(categories, ","))
	b.WriteString("|")
	if q.DateFrom != nil {
		b.WriteString(q.DateFrom.UTC().Format("2006-01-02"))
	}
	b.WriteString("|")
	if q.DateTo != nil {
		b.WriteString(q.DateTo.UTC().Format("2006-01-02"))
	}
	return b.String()
}
