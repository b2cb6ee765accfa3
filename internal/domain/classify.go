package domain

import "strings"

// Category is the coarse disaster classification of a DC Report message.
type Category string

const (
	CategoryWeather    Category = "Weather"
	CategoryEarthquake Category = "Earthquake"
	CategoryMarine     Category = "Marine"
	CategoryFlood      Category = "Flood"
	CategoryOther      Category = "Other"
)

// Detail is the fine-grained classification subordinate to a Category.
type Detail string

const (
	DetailSedimentDisasterWarning Detail = "Sediment Disaster Warning"
	DetailHeavyRainWarning        Detail = "Heavy Rain Warning"
	DetailFloodWarning            Detail = "Flood Warning"
	DetailWeatherOther            Detail = "Weather Other"
	DetailEarthquakeInformation   Detail = "Earthquake Information"
	DetailMarineDenseFogWarning   Detail = "Marine Dense Fog Warning"
	DetailMarineWindWarning       Detail = "Marine Wind Warning"
	DetailMarineOther             Detail = "Marine Other"
	DetailFloodRiskInformation    Detail = "Flood Risk Information"
	DetailFloodOther              Detail = "Flood Other"
	DetailOther                   Detail = "Other"
)

// DetailRule maps a sub-marker substring to its Detail label.
type DetailRule struct {
	Marker string
	Detail Detail
}

// CategoryRule maps a top-level JMA marker substring to a Category and its
// ordered sub-markers. Rule order is significant at both levels: the first
// matching marker wins, so broader markers must come after narrower ones.
type CategoryRule struct {
	Category Category
	Marker   string
	Details  []DetailRule
	Fallback Detail
}

// defaultRules is the built-in marker table for JMA disaster bulletins as
// they appear in DC Report message bodies. Category order is weather,
// earthquake, marine, flood; anything unmatched is Other.
var defaultRules = []CategoryRule{
	{
		Category: CategoryWeather,
		Marker:   "災危通報(気象)",
		Details: []DetailRule{
			{Marker: "土砂災害警戒情報", Detail: DetailSedimentDisasterWarning},
			{Marker: "大雨警報", Detail: DetailHeavyRainWarning},
			{Marker: "洪水警報", Detail: DetailFloodWarning},
		},
		Fallback: DetailWeatherOther,
	},
	{
		Category: CategoryEarthquake,
		Marker:   "災危通報(震源)",
		Fallback: DetailEarthquakeInformation,
	},
	{
		Category: CategoryMarine,
		Marker:   "災危通報(海上)",
		Details: []DetailRule{
			{Marker: "海上濃霧警報", Detail: DetailMarineDenseFogWarning},
			{Marker: "海上風警報", Detail: DetailMarineWindWarning},
		},
		Fallback: DetailMarineOther,
	},
	{
		Category: CategoryFlood,
		Marker:   "災危通報(洪水)",
		Details: []DetailRule{
			{Marker: "氾濫警戒情報", Detail: DetailFloodRiskInformation},
		},
		Fallback: DetailFloodOther,
	},
}

// DefaultRules returns a copy of the built-in marker table.
func DefaultRules() []CategoryRule {
	rules := make([]CategoryRule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}

// Classify derives the coarse and detailed disaster classification from a
// message body using the built-in marker table. It is pure and total: a
// message matching no marker yields (CategoryOther, DetailOther).
func Classify(message string) (Category, Detail) {
	return ClassifyWith(defaultRules, message)
}

// ClassifyWith classifies message against an explicit rule table, first
// match wins at both levels.
func ClassifyWith(rules []CategoryRule, message string) (Category, Detail) {
	for _, rule := range rules {
		if !containsMarker(message, rule.Marker) {
			continue
		}
		for _, sub := range rule.Details {
			if containsMarker(message, sub.Marker) {
				return rule.Category, sub.Detail
			}
		}
		return rule.Category, rule.Fallback
	}
	return CategoryOther, DetailOther
}

// detailCategories recovers the coarse category from a detail label alone.
// Call sites that only have the label (the filtered report) share this table
// instead of re-deriving the category with their own keyword tests. It must
// cover every Detail the rule table can produce.
var detailCategories = map[Detail]Category{
	DetailSedimentDisasterWarning: CategoryWeather,
	DetailHeavyRainWarning:        CategoryWeather,
	DetailFloodWarning:            CategoryWeather,
	DetailWeatherOther:            CategoryWeather,
	DetailEarthquakeInformation:   CategoryEarthquake,
	DetailMarineDenseFogWarning:   CategoryMarine,
	DetailMarineWindWarning:       CategoryMarine,
	DetailMarineOther:             CategoryMarine,
	DetailFloodRiskInformation:    CategoryFlood,
	DetailFloodOther:              CategoryFlood,
	DetailOther:                   CategoryOther,
}

// CategoryOfDetail maps a detail label back to its coarse category.
// Unknown labels resolve to CategoryOther.
func CategoryOfDetail(d Detail) Category {
	if c, ok := detailCategories[d]; ok {
		return c
	}
	return CategoryOther
}

func containsMarker(message, marker string) bool {
	return marker != "" && strings.Contains(message, marker)
}
