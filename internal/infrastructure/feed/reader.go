package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"TeamNewsBot/internal/domain"
)

// Reader downloads and parses RSS/Atom/JSON feeds into articles.
type Reader struct {
	client    *http.Client
	parser    *gofeed.Parser
	userAgent string
}

// NewReader wires an HTTP client; a nil client gets a 20s timeout.
func NewReader(client *http.Client, userAgent string) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if userAgent == "" {
		userAgent = "TeamNewsBot/1.0"
	}
	return &Reader{client: client, parser: gofeed.NewParser(), userAgent: userAgent}
}

// Read returns every entry of the feed at feedURL, tagged with sourceName.
// Missing fields are empty strings; a missing date leaves PublishedTime nil.
func (r *Reader) Read(ctx context.Context, sourceName, feedURL string) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]domain.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, toArticle(item, sourceName))
	}
	return articles, nil
}

func toArticle(item *gofeed.Item, sourceName string) domain.Article {
	article := domain.Article{
		Title:      strings.TrimSpace(item.Title),
		Link:       strings.TrimSpace(item.Link),
		Published:  item.Published,
		Summary:    item.Description,
		SourceName: sourceName,
	}

	if article.Summary == "" {
		article.Summary = item.Content
	}

	switch {
	case item.PublishedParsed != nil:
		ts := *item.PublishedParsed
		article.PublishedTime = &ts
	case item.UpdatedParsed != nil:
		ts := *item.UpdatedParsed
		article.PublishedTime = &ts
		if article.Published == "" {
			article.Published = item.Updated
		}
	}

	return article
}
