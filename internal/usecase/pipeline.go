package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"TeamNewsBot/internal/domain"
	"TeamNewsBot/internal/filter"
	"TeamNewsBot/internal/formatter"
	"TeamNewsBot/internal/logging"
	"TeamNewsBot/internal/ports"
)

var (
	// ErrNoArticles is returned by single-article entry points when nothing matched.
	ErrNoArticles = errors.New("no relevant articles found")
	// ErrPublishFailed is returned when an entry point's only publish attempt failed.
	ErrPublishFailed = errors.New("publish failed")
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source       ports.ArticleSource
	Ledger       ports.Ledger
	Publisher    ports.Publisher
	Threads      ports.ThreadWriter
	Logger       *slog.Logger
	RecencyHours float64
	PostDelay    time.Duration

	// Now and Sleep default to the wall clock and a context-aware timer.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Pipeline implements fetch -> filter -> dedup -> format -> publish -> record.
type Pipeline struct {
	source       ports.ArticleSource
	ledger       ports.Ledger
	publisher    ports.Publisher
	threads      ports.ThreadWriter
	logger       *slog.Logger
	recencyHours float64
	postDelay    time.Duration
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:       deps.Source,
		ledger:       deps.Ledger,
		publisher:    deps.Publisher,
		threads:      deps.Threads,
		logger:       deps.Logger,
		recencyHours: deps.RecencyHours,
		postDelay:    deps.PostDelay,
		now:          deps.Now,
		sleep:        deps.Sleep,
	}
	if p.logger == nil {
		p.logger = logging.Discard()
	}
	if p.ledger == nil {
		p.ledger = memoryLedger{}
	}
	if p.recencyHours <= 0 {
		p.recencyHours = filter.DefaultRecencyHours
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
	return p
}

// Run publishes every new, recent, relevant article once. A failed article is
// logged and the loop moves on; only cancellation or a source error stops it.
func (p *Pipeline) Run(ctx context.Context) (domain.Report, error) {
	report := domain.Report{RunID: uuid.NewString()}
	log := p.logger.With("run_id", report.RunID)
	log.Info("starting run")

	articles, err := p.fetch(ctx)
	if err != nil {
		return report, err
	}
	report.Fetched = len(articles)
	log.Info("relevant articles found", "count", len(articles))

	fresh := p.newArticles(articles)
	report.Eligible = len(fresh)
	log.Info("new articles to post", "count", len(fresh))

	for _, article := range fresh {
		if p.ledger.Contains(article.Link) {
			report.Skipped++
			continue
		}

		text, err := formatter.Tweet(article.Title, article.Link)
		if err != nil {
			log.Error("format article", "source", article.SourceName, "title", article.Title, "error", err)
			report.Skipped++
			continue
		}

		id, err := p.publisher.Publish(ctx, text)
		if err != nil {
			log.Warn("failed to post", "source", article.SourceName, "title", article.Title, "error", err)
			report.Failed++
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			continue
		}

		p.ledger.Record(article.Link)
		report.Published++
		log.Info("posted", "source", article.SourceName, "title", article.Title, "id", id)

		if err := p.sleep(ctx, p.postDelay); err != nil {
			return report, err
		}
	}

	log.Info("run completed", "published", report.Published, "failed", report.Failed, "skipped", report.Skipped)
	return report, nil
}

// Preview formats what Run would post without publishing or recording anything.
func (p *Pipeline) Preview(ctx context.Context) ([]domain.Draft, error) {
	articles, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var drafts []domain.Draft
	for _, article := range p.newArticles(articles) {
		if _, dup := seen[article.Link]; dup {
			continue
		}
		seen[article.Link] = struct{}{}

		text, err := formatter.Tweet(article.Title, article.Link)
		if err != nil {
			p.logger.Error("format article", "source", article.SourceName, "title", article.Title, "error", err)
			continue
		}
		drafts = append(drafts, domain.Draft{Article: article, Text: text})
	}
	return drafts, nil
}

// DryRun drafts a post for the most recent relevant article without posting it.
func (p *Pipeline) DryRun(ctx context.Context) (domain.Draft, error) {
	article, err := p.mostRecent(ctx)
	if err != nil {
		return domain.Draft{}, err
	}

	text, err := formatter.Tweet(article.Title, article.Link)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("format %q: %w", article.Title, err)
	}
	return domain.Draft{Article: article, Text: text}, nil
}

// TestPost publishes the most recent relevant article regardless of age or
// ledger state, and deliberately does not record it.
func (p *Pipeline) TestPost(ctx context.Context) (domain.Draft, error) {
	draft, err := p.DryRun(ctx)
	if err != nil {
		return domain.Draft{}, err
	}

	id, err := p.publisher.Publish(ctx, draft.Text)
	if err != nil {
		p.logger.Error("test post failed", "title", draft.Article.Title, "error", err)
		return draft, fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	p.logger.Info("test post published", "title", draft.Article.Title, "id", id)
	return draft, nil
}

// Thread generates a thread about the most recent relevant article. When live,
// it is published as a reply chain and the article link is recorded on success.
func (p *Pipeline) Thread(ctx context.Context, live bool) (domain.Article, domain.Thread, error) {
	if p.threads == nil {
		return domain.Article{}, nil, fmt.Errorf("thread generator is not configured")
	}

	article, err := p.mostRecent(ctx)
	if err != nil {
		return domain.Article{}, nil, err
	}

	thread, err := p.threads.Generate(ctx, article)
	if err != nil {
		return article, nil, err
	}
	p.logger.Info("thread generated", "title", article.Title, "segments", len(thread))

	if !live {
		return article, thread, nil
	}

	if !p.publisher.PublishChain(ctx, thread) {
		return article, thread, fmt.Errorf("%w: thread for %q", ErrPublishFailed, article.Title)
	}
	p.ledger.Record(article.Link)
	p.logger.Info("thread posted", "title", article.Title, "segments", len(thread))
	return article, thread, nil
}

func (p *Pipeline) fetch(ctx context.Context) ([]domain.Article, error) {
	if p.source == nil {
		return nil, fmt.Errorf("article source is not configured")
	}
	articles, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	return articles, nil
}

// newArticles keeps feed order and drops ledger hits and stale entries.
func (p *Pipeline) newArticles(articles []domain.Article) []domain.Article {
	now := p.now()
	var fresh []domain.Article
	for _, article := range articles {
		if strings.TrimSpace(article.Link) == "" {
			p.logger.Warn("skipping article without link", "source", article.SourceName, "title", article.Title)
			continue
		}
		if p.ledger.Contains(article.Link) {
			continue
		}
		if !filter.Recent(article, p.recencyHours, now) {
			continue
		}
		fresh = append(fresh, article)
	}
	return fresh
}

func (p *Pipeline) mostRecent(ctx context.Context) (domain.Article, error) {
	articles, err := p.fetch(ctx)
	if err != nil {
		return domain.Article{}, err
	}
	if len(articles) == 0 {
		return domain.Article{}, ErrNoArticles
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return filter.SortKey(articles[i]).After(filter.SortKey(articles[j]))
	})

	p.logger.Info("most recent article", "title", articles[0].Title, "source", articles[0].SourceName, "link", articles[0].Link)
	return articles[0], nil
}

// memoryLedger stands in when no persistent ledger is wired.
type memoryLedger map[string]struct{}

func (m memoryLedger) Contains(id string) bool {
	_, ok := m[strings.TrimSpace(id)]
	return ok
}

func (m memoryLedger) Record(id string) {
	if id = strings.TrimSpace(id); id != "" {
		m[id] = struct{}{}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
