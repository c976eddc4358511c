package feed

import (
	"context"
	"log/slog"

	"TeamNewsBot/internal/domain"
	"TeamNewsBot/internal/filter"
	"TeamNewsBot/internal/ports"
)

// EntryReader fetches raw entries for one feed.
type EntryReader interface {
	Read(ctx context.Context, sourceName, feedURL string) ([]domain.Article, error)
}

// Source implements ArticleSource over the configured feeds, keeping only keyword matches.
type Source struct {
	reader  EntryReader
	sources []domain.Source
	logger  *slog.Logger
}

var _ ports.ArticleSource = (*Source)(nil)

// NewSource wires a reader with config-defined sources.
func NewSource(reader EntryReader, sources []domain.Source, log *slog.Logger) *Source {
	return &Source{
		reader:  reader,
		sources: sources,
		logger:  log,
	}
}

// Fetch reads every source in order. A failing source is logged and contributes nothing.
func (s *Source) Fetch(ctx context.Context) ([]domain.Article, error) {
	var aggregated []domain.Article
	for _, src := range s.sources {
		if err := ctx.Err(); err != nil {
			return aggregated, err
		}

		s.info("fetching news", "source", src.Name)
		entries, err := s.reader.Read(ctx, src.Name, src.FeedURL)
		if err != nil {
			s.error("fetch source", "source", src.Name, "url", src.FeedURL, "error", err)
			continue
		}

		matched := 0
		for _, entry := range entries {
			if !filter.Relevant(entry.Title, entry.Summary, src.Keywords) {
				continue
			}
			aggregated = append(aggregated, entry)
			matched++
		}
		s.info("source fetched", "source", src.Name, "entries", len(entries), "relevant", matched)
	}

	return aggregated, nil
}

func (s *Source) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Source) error(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
