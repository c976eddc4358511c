package filter

import (
	"testing"
	"time"

	"TeamNewsBot/internal/domain"
)

func TestRelevant(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		title    string
		summary  string
		keywords []string
		want     bool
	}{
		{"title match", "Chargers win", "", []string{"chargers"}, true},
		{"summary match", "Week 5 recap", "Justin HERBERT was sharp", []string{"herbert"}, true},
		{"substring not token", "Herberto signs", "", []string{"herbert"}, true},
		{"keyword case folded", "chargers news", "", []string{"CHARGERS"}, true},
		{"any keyword", "QB update", "herbert out", []string{"chargers", "herbert"}, true},
		{"no match", "Raiders lose", "", []string{"chargers"}, false},
		{"empty keywords", "Chargers win", "", nil, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Relevant(tc.title, tc.summary, tc.keywords); got != tc.want {
				t.Fatalf("Relevant(%q, %q, %v) = %v, want %v", tc.title, tc.summary, tc.keywords, got, tc.want)
			}
		})
	}
}

func TestRecent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.October, 5, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	if !Recent(domain.Article{PublishedTime: at(2 * time.Hour)}, 24, now) {
		t.Fatal("2h old article should be recent")
	}
	if !Recent(domain.Article{PublishedTime: at(24 * time.Hour)}, 24, now) {
		t.Fatal("boundary should be inclusive")
	}
	if Recent(domain.Article{PublishedTime: at(25 * time.Hour)}, 24, now) {
		t.Fatal("25h old article should not be recent")
	}
	if Recent(domain.Article{PublishedTime: at(3 * time.Hour)}, 2, now) {
		t.Fatal("custom threshold ignored")
	}
}

func TestRecentWithoutDateFailsOpen(t *testing.T) {
	t.Parallel()

	now := time.Now()
	for _, threshold := range []float64{0.001, 1, 24, 1000} {
		if !Recent(domain.Article{Title: "no date"}, threshold, now) {
			t.Fatalf("article without date must pass for threshold %v", threshold)
		}
	}
}

func TestRecentNormalizesTimezones(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.October, 5, 12, 0, 0, 0, time.UTC)
	pacific := time.FixedZone("PDT", -7*3600)
	// 04:00 PDT is 11:00 UTC, one hour before now.
	published := time.Date(2025, time.October, 5, 4, 0, 0, 0, pacific)

	if !Recent(domain.Article{PublishedTime: &published}, 2, now) {
		t.Fatal("offset dates should be compared as instants")
	}
}

func TestSortKey(t *testing.T) {
	t.Parallel()

	if got := SortKey(domain.Article{}); got.Year() != 2000 {
		t.Fatalf("missing date should sort as year 2000, got %v", got)
	}
	ts := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	if got := SortKey(domain.Article{PublishedTime: &ts}); !got.Equal(ts) {
		t.Fatalf("unexpected key %v", got)
	}
}
