package news

import (
	"sync"
	"testing"
	"time"
)

var testLabels = map[string]string{
	SourceNewsAPI:  "NewsAPI",
	SourceGuardian: "The Guardian",
	SourceNYTimes:  "The New York Times",
}

func testArticle(title, sourceName string) Article {
	return Article{
		Title:       title,
		Description: "Description for " + title,
		URL:         "https://example.com/" + title,
		PublishedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Category:    "general",
		Source:      ArticleSource{Name: sourceName},
	}
}

func TestRunEmptyStateKeepsEverything(t *testing.T) {
	f := NewFilterer(testLabels)

	articles := []Article{
		testArticle("First", "NewsAPI"),
		testArticle("Second", "The Guardian"),
		testArticle("Third", "The New York Times"),
	}

	result := f.Run(articles, FilterState{})

	if len(result) != 3 {
		t.Errorf("Expected 3 articles, got %d", len(result))
	}
}

func TestMatchesSourceFuzzy(t *testing.T) {
	f := NewFilterer(testLabels)

	tests := []struct {
		name       string
		sourceName string
		selected   []string
		expected   bool
	}{
		{"exact key", "newsapi", []string{SourceNewsAPI}, true},
		{"display name contains key", "NewsAPI.org", []string{SourceNewsAPI}, true},
		{"label match for nytimes", "The New York Times", []string{SourceNYTimes}, true},
		{"label match for guardian", "The Guardian", []string{SourceGuardian}, true},
		{"partial display name", "Guardian US", []string{SourceGuardian}, true},
		{"no match", "Reuters", []string{SourceNewsAPI}, false},
		{"wrong selection", "The Guardian", []string{SourceNYTimes}, false},
		{"multiple selected, one matches", "The Guardian", []string{SourceNewsAPI, SourceGuardian}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := testArticle("Title", tt.sourceName)
			got := f.matchesSource(article, tt.selected)
			if got != tt.expected {
				t.Errorf("matchesSource(%q, %v) = %v, expected %v", tt.sourceName, tt.selected, got, tt.expected)
			}
		})
	}
}

func TestMatchesCategoryBidirectional(t *testing.T) {
	f := NewFilterer(testLabels)

	article := testArticle("Title", "NewsAPI")
	article.Category = "technology"

	if !f.matchesCategory(article, []string{"tech"}) {
		t.Error("Expected 'tech' to match category 'technology'")
	}
	if !f.matchesCategory(article, []string{"technology"}) {
		t.Error("Expected exact category match")
	}
	if f.matchesCategory(article, []string{"sports"}) {
		t.Error("Expected 'sports' not to match 'technology'")
	}
	if !f.matchesCategory(article, nil) {
		t.Error("Expected empty selection to match everything")
	}
}

func TestMatchesCategoryAbsentCategory(t *testing.T) {
	f := NewFilterer(testLabels)

	// Saved articles only require a URL, so an article can reach the
	// filter with no category at all. It must not match any selection.
	article := testArticle("Title", "NewsAPI")
	article.Category = ""

	if f.matchesCategory(article, []string{"science"}) {
		t.Error("Expected article with absent category not to match a selection")
	}
	if f.matchesCategory(article, []string{"science", "business"}) {
		t.Error("Expected article with absent category not to match any selection")
	}
	if !f.matchesCategory(article, nil) {
		t.Error("Expected empty selection to still match everything")
	}
}

func TestRunConcurrent(t *testing.T) {
	f := NewFilterer(testLabels)

	articles := []Article{
		testArticle("Résumé économie", "The Guardian"),
		testArticle("Plain title", "NewsAPI"),
	}
	state := FilterState{Search: "resume"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := f.Run(articles, state); len(got) != 1 {
					t.Errorf("Expected 1 article, got %d", len(got))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestMatchesDateRangeBoundaries(t *testing.T) {
	f := NewFilterer(testLabels)

	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		publishedAt time.Time
		from        *time.Time
		to          *time.Time
		expected    bool
	}{
		{"midnight start of from-day included", day, &day, &day, true},
		{"last nanosecond of to-day included", day.AddDate(0, 0, 1).Add(-time.Nanosecond), &day, &day, true},
		{"midnight after to-day excluded", day.AddDate(0, 0, 1), &day, &day, false},
		{"before from-day excluded", day.Add(-time.Nanosecond), &day, &day, false},
		{"unbounded from", day.AddDate(0, -1, 0), nil, &day, true},
		{"unbounded to", day.AddDate(0, 1, 0), &day, nil, true},
		{"no bounds", day, nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := testArticle("Title", "NewsAPI")
			article.PublishedAt = tt.publishedAt
			got := f.matchesDateRange(article, tt.from, tt.to)
			if got != tt.expected {
				t.Errorf("matchesDateRange(%v, %v, %v) = %v, expected %v",
					tt.publishedAt, tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestMatchesSearchSubstring(t *testing.T) {
	f := NewFilterer(testLabels)

	article := Article{
		Title:       "Central Banks Hold Rates Steady",
		Description: "Policy makers cite inflation data",
		Source:      ArticleSource{Name: "The Guardian"},
	}

	if !f.matchesSearch(article, "banks") {
		t.Error("Expected title substring to match")
	}
	if !f.matchesSearch(article, "INFLATION") {
		t.Error("Expected case-insensitive description match")
	}
	if !f.matchesSearch(article, "  steady  ") {
		t.Error("Expected trimmed search term to match")
	}
	if f.matchesSearch(article, "cricket") {
		t.Error("Expected no match for absent term")
	}
	if !f.matchesSearch(article, "") {
		t.Error("Expected empty search to match everything")
	}
}

func TestMatchesSearchAccentFolding(t *testing.T) {
	f := NewFilterer(testLabels)

	article := Article{
		Title:  "Résumé of the week's économie",
		Source: ArticleSource{Name: "NewsAPI"},
	}

	if !f.matchesSearch(article, "resume") {
		t.Error("Expected accent-folded title match")
	}
	if !f.matchesSearch(article, "économie") {
		t.Error("Expected accented search term to match")
	}
}

func TestMatchesSearchProviderToken(t *testing.T) {
	f := NewFilterer(testLabels)

	nyt := testArticle("Budget vote times out", "The New York Times")
	guardian := testArticle("Budget vote times out", "The Guardian")

	// A provider token switches to source-only matching: the guardian
	// article mentions "times" in its title but is still excluded.
	if !f.matchesSearch(nyt, "times") {
		t.Error("Expected 'times' token to match the NYT source")
	}
	if f.matchesSearch(guardian, "times") {
		t.Error("Expected 'times' token not to match a Guardian article by title")
	}
	if !f.matchesSearch(guardian, "guardian") {
		t.Error("Expected 'guardian' token to match the Guardian source")
	}
	if f.matchesSearch(nyt, "newsapi") {
		t.Error("Expected 'newsapi' token not to match an NYT article")
	}
}

func TestRunAppliesAllPredicates(t *testing.T) {
	f := NewFilterer(testLabels)

	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	keep := testArticle("Quantum computing advance", "The Guardian")
	keep.Category = "science"
	keep.PublishedAt = day.Add(10 * time.Hour)

	wrongSource := keep
	wrongSource.Source = ArticleSource{Name: "NewsAPI"}

	wrongCategory := keep
	wrongCategory.Category = "sports"

	wrongDate := keep
	wrongDate.PublishedAt = day.AddDate(0, 0, -5)

	state := FilterState{
		Search:     "quantum",
		Sources:    []string{SourceGuardian},
		Categories: []string{"science"},
		DateFrom:   &day,
		DateTo:     &day,
	}

	result := f.Run([]Article{keep, wrongSource, wrongCategory, wrongDate}, state)

	if len(result) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(result))
	}
	if result[0].Source.Name != "The Guardian" {
		t.Errorf("Expected the Guardian article to survive, got %q", result[0].Source.Name)
	}
}
