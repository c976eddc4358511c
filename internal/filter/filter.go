package filter

import (
	"strings"
	"time"

	"TeamNewsBot/internal/domain"
)

// DefaultRecencyHours is the rolling window used when none is configured.
const DefaultRecencyHours = 24

// Relevant reports whether any keyword is a case-insensitive substring of title+summary.
// An empty keyword list never matches.
func Relevant(title, summary string, keywords []string) bool {
	text := strings.ToLower(title) + " " + strings.ToLower(summary)
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Recent reports whether the article was published within thresholdHours of now.
// Articles without a publish time always pass.
func Recent(article domain.Article, thresholdHours float64, now time.Time) bool {
	if !article.HasPublishedTime() {
		return true
	}
	if thresholdHours <= 0 {
		thresholdHours = DefaultRecencyHours
	}
	elapsed := now.Sub(*article.PublishedTime).Hours()
	return elapsed <= thresholdHours
}

// sortFallback stands in for a missing publish date when ordering by recency.
var sortFallback = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// SortKey returns the publish time used to order articles newest first.
func SortKey(article domain.Article) time.Time {
	if article.HasPublishedTime() {
		return *article.PublishedTime
	}
	return sortFallback
}
