package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TeamNewsBot/internal/domain"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Team News</title>
  <item>
    <title>&lt;b&gt;Herbert&lt;/b&gt; throws 3 TDs</title>
    <link>http://x/1</link>
    <description>Chargers roll on Sunday.</description>
    <pubDate>Sun, 05 Oct 2025 20:00:00 -0700</pubDate>
  </item>
  <item>
    <title>Raiders notebook</title>
    <link>http://x/2</link>
    <description>Nothing about the Bolts.</description>
  </item>
  <item>
    <title>Injury report</title>
    <link>http://x/3</link>
    <description>Herbert limited in practice.</description>
    <pubDate>not a date</pubDate>
  </item>
</channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not a feed"))
	})
	mux.HandleFunc("/down", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestReaderRead(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t)
	reader := NewReader(srv.Client(), "test-agent")

	articles, err := reader.Read(context.Background(), "ESPN", srv.URL+"/feed")
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "<b>Herbert</b> throws 3 TDs" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.Link != "http://x/1" || first.SourceName != "ESPN" {
		t.Fatalf("unexpected article %+v", first)
	}
	if !first.HasPublishedTime() {
		t.Fatal("expected parsed publish time")
	}
	want := time.Date(2025, time.October, 6, 3, 0, 0, 0, time.UTC)
	if !first.PublishedTime.Equal(want) {
		t.Fatalf("unexpected publish time %v", first.PublishedTime)
	}

	if articles[1].HasPublishedTime() || articles[1].Published != "" {
		t.Fatalf("missing date should stay absent: %+v", articles[1])
	}
	if articles[2].HasPublishedTime() {
		t.Fatal("unparseable date should stay absent")
	}
}

func TestReaderReadErrors(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t)
	reader := NewReader(srv.Client(), "test-agent")

	if _, err := reader.Read(context.Background(), "down", srv.URL+"/down"); err == nil {
		t.Fatal("expected error for non-200 feed")
	}
	if _, err := reader.Read(context.Background(), "broken", srv.URL+"/broken"); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}

func TestSourceFetchFiltersAndContinues(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t)
	reader := NewReader(srv.Client(), "test-agent")

	src := NewSource(reader, []domain.Source{
		{Name: "down", FeedURL: srv.URL + "/down", Keywords: []string{"herbert"}},
		{Name: "ESPN", FeedURL: srv.URL + "/feed", Keywords: []string{"herbert"}},
		{Name: "silent", FeedURL: srv.URL + "/feed"},
	}, nil)

	articles, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 relevant articles, got %d", len(articles))
	}
	if articles[0].Link != "http://x/1" || articles[1].Link != "http://x/3" {
		t.Fatalf("feed order not preserved: %s, %s", articles[0].Link, articles[1].Link)
	}
}
