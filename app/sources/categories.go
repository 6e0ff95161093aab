package sources

// Static translation of the canonical categories into each provider's
// own taxonomy. NewsAPI accepts the canonical names directly and needs
// no table. A lookup miss falls back to the provider default, never an
// error.

const (
	guardianDefaultSection = "news"
	nytimesDefaultSection  = "home"
)

var guardianSections = map[string]string{
	"general":       "news",
	"business":      "business",
	"technology":    "technology",
	"sports":        "sport",
	"entertainment": "culture",
	"health":        "society",
	"science":       "science",
}

var nytimesSections = map[string]string{
	"general":       "home",
	"business":      "business",
	"technology":    "technology",
	"sports":        "sports",
	"entertainment": "arts",
	"health":        "health",
	"science":       "science",
}

// GuardianSection maps a canonical category to a Guardian section ID.
func GuardianSection(category string) string {
	if section, ok := guardianSections[category]; ok {
		return section
	}
	return guardianDefaultSection
}

// NYTimesSection maps a canonical category to a Top Stories section.
func NYTimesSection(category string) string {
	if section, ok := nytimesSections[category]; ok {
		return section
	}
	return nytimesDefaultSection
}
