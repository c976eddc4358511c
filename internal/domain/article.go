package domain

import "time"

// Article is a normalized feed entry. Only Link outlives a single pass (in the ledger).
type Article struct {
	Title         string
	Link          string
	Published     string
	PublishedTime *time.Time
	Summary       string
	SourceName    string
}

// HasPublishedTime reports whether the feed supplied a parseable publish date.
func (a Article) HasPublishedTime() bool {
	return a.PublishedTime != nil && !a.PublishedTime.IsZero()
}

// Source is a static feed definition with its relevance keywords.
type Source struct {
	Name     string
	FeedURL  string
	Keywords []string
}

// Thread is an ordered reply chain; element i+1 replies to element i.
type Thread []string

// Draft is a formatted payload paired with the article it was built from.
type Draft struct {
	Article Article
	Text    string
}

// Report summarizes one orchestration pass.
type Report struct {
	RunID     string
	Fetched   int
	Eligible  int
	Published int
	Failed    int
	Skipped   int
}
