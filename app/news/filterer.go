package news

import (
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filterer applies a FilterState over an article set. Predicates are
// evaluated independently per article; every predicate must hold.
type Filterer struct {
	labels map[string]string
}

// NewFilterer creates a filterer. labels maps source keys to the
// provider display names used for fuzzy source matching.
func NewFilterer(labels map[string]string) *Filterer {
	return &Filterer{labels: labels}
}

func (f *Filterer) Run(articles []Article, state FilterState) []Article {
	kept := make([]Article, 0, len(articles))
	for _, article := range articles {
		if !f.matchesSource(article, state.Sources) {
			continue
		}
		if !f.matchesCategory(article, state.Categories) {
			continue
		}
		if !f.matchesDateRange(article, state.DateFrom, state.DateTo) {
			continue
		}
		if !f.matchesSearch(article, state.Search) {
			continue
		}
		kept = append(kept, article)
	}
	return kept
}

// matchesSource is vacuously true for an empty selection. Provider
// display names ("The New York Times") do not equal their internal keys
// ("nytimes"), so matching is fuzzy: substring in either direction
// against the key and against the key's display label.
func (f *Filterer) matchesSource(article Article, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, key := range selected {
		if f.sourceMatchesKey(article.Source.Name, key) {
			return true
		}
	}
	return false
}

func (f *Filterer) sourceMatchesKey(sourceName, key string) bool {
	name := fold(sourceName)
	k := fold(key)
	if name == "" || k == "" {
		return false
	}
	if strings.Contains(name, k) || strings.Contains(k, name) {
		return true
	}
	if label, ok := f.labels[key]; ok {
		l := fold(label)
		if strings.Contains(name, l) || strings.Contains(l, name) {
			return true
		}
	}
	return false
}

func (f *Filterer) matchesCategory(article Article, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	category := fold(article.Category)
	// An absent category matches no selection; without this guard the
	// bidirectional substring check is vacuously true for "".
	if category == "" {
		return false
	}
	for _, c := range selected {
		sel := fold(c)
		if sel == "" {
			continue
		}
		if strings.Contains(category, sel) || strings.Contains(sel, category) {
			return true
		}
	}
	return false
}

// matchesDateRange keeps articles published within
// [startOfDay(from), endOfDay(to)] inclusive. A missing bound leaves
// that side unbounded.
func (f *Filterer) matchesDateRange(article Article, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	published := article.PublishedAt
	if from != nil && published.Before(startOfDay(*from)) {
		return false
	}
	if to != nil && published.After(endOfDay(*to)) {
		return false
	}
	return true
}

// matchesSearch performs a case-insensitive, accent-folded substring
// match over title, description and source name. A search term equal to
// a provider token short-circuits to source-only matching.
func (f *Filterer) matchesSearch(article Article, search string) bool {
	term := fold(strings.TrimSpace(search))
	if term == "" {
		return true
	}

	if key, ok := f.sourceToken(term); ok {
		return f.sourceMatchesKey(article.Source.Name, key)
	}

	return strings.Contains(fold(article.Title), term) ||
		strings.Contains(fold(article.Description), term) ||
		strings.Contains(fold(article.Source.Name), term)
}

// sourceToken resolves a search term that exactly names a provider.
// "times" is accepted as shorthand for the NYT key, matching how users
// actually search for it.
func (f *Filterer) sourceToken(term string) (string, bool) {
	if _, ok := f.labels[term]; ok {
		return term, true
	}
	if term == "times" {
		if _, ok := f.labels[SourceNYTimes]; ok {
			return SourceNYTimes, true
		}
	}
	return "", false
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// foldPool recycles the fold transformer chain. Chains carry internal
// buffers, so one shared instance cannot serve concurrent requests.
var foldPool = sync.Pool{
	New: func() interface{} {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// fold lowercases and strips combining marks so that "céu" matches "ceu".
func fold(s string) string {
	if s == "" {
		return ""
	}
	t := foldPool.Get().(transform.Transformer)
	folded, _, err := transform.String(t, s)
	foldPool.Put(t)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
