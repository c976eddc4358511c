package ports

import (
	"context"
	"time"

	"TeamNewsBot/internal/domain"
)

// ArticleSource pulls relevant articles from all configured feeds.
type ArticleSource interface {
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// Ledger remembers which article links were already published.
type Ledger interface {
	Contains(id string) bool
	Record(id string)
}

// Publisher posts payloads to the microblogging platform.
type Publisher interface {
	Publish(ctx context.Context, text string) (string, error)
	PublishChain(ctx context.Context, texts []string) bool
}

// SamplingParams carries generation knobs shared by all providers.
type SamplingParams struct {
	Temperature float32
	MaxTokens   int
}

// TextGenerator is a single text-generation backend (chat-completion or single-shot).
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, systemPrompt, userPrompt string, params SamplingParams) (string, error)
}

// ThreadWriter turns an article into a reply-chain thread.
type ThreadWriter interface {
	Generate(ctx context.Context, article domain.Article) (domain.Thread, error)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
