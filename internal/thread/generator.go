package thread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TeamNewsBot/internal/config"
	"TeamNewsBot/internal/domain"
	"TeamNewsBot/internal/formatter"
	"TeamNewsBot/internal/ports"
)

// ErrEmptyThread is returned when the provider output has no usable segments.
var ErrEmptyThread = errors.New("generated thread is empty")

// Sampling is fixed for every provider.
var Sampling = ports.SamplingParams{Temperature: 0.8, MaxTokens: 2000}

const systemPrompt = "You are a passionate, knowledgeable Los Angeles Chargers beat writer who " +
	"tells stories on social media. You write in a conversational, energetic voice, stay factual, " +
	"and never invent statistics or quotes."

const promptTemplate = `Write a Twitter/X thread about this Chargers news story.

Headline: %s
Source: %s
Link: %s
Summary: %s

Instructions:
- Open by establishing context: who is involved and why it matters for the Chargers.
- Tell the story chronologically, building from background to the latest development.
- Write 8 to 12 tweets, numbered like 1/10, 2/10 and so on.
- Keep a conversational voice, like talking to fellow fans.
- Each tweet must be at most 280 characters.
- Put each tweet on its own line with no blank lines inside a tweet.
- End with the link to the full story.`

var (
	fractionPrefix = regexp.MustCompile(`^\d+\s*/\s*\d+\s*[-–—:.)]?\s*`)
	tweetPrefix    = regexp.MustCompile(`(?i)^tweet\s*\d+(\s*/\s*\d+)?\s*[:.)-]?\s*`)
)

// Generator turns one article into a reply-chain thread via a text-generation provider.
type Generator struct {
	provider ports.TextGenerator
	logger   *slog.Logger
}

// NewGenerator wires the statically selected provider; nil means none is usable.
func NewGenerator(provider ports.TextGenerator, logger *slog.Logger) *Generator {
	return &Generator{provider: provider, logger: logger}
}

// Generate builds the prompt, calls the provider once and cleans the response into segments.
func (g *Generator) Generate(ctx context.Context, article domain.Article) (domain.Thread, error) {
	if g.provider == nil {
		return nil, fmt.Errorf("%w: no provider credentials set", config.ErrProviderNotConfigured)
	}

	prompt := BuildPrompt(article)
	g.debug("generating thread", "provider", g.provider.Name(), "title", article.Title)

	raw, err := g.provider.Generate(ctx, systemPrompt, prompt, Sampling)
	if err != nil {
		return nil, fmt.Errorf("generate thread with %s: %w", g.provider.Name(), err)
	}

	segments := Clean(raw)
	if len(segments) == 0 {
		return nil, ErrEmptyThread
	}

	g.debug("thread generated", "provider", g.provider.Name(), "segments", len(segments))
	return segments, nil
}

// BuildPrompt fills the narrative template with the article's plain-text details.
func BuildPrompt(article domain.Article) string {
	return fmt.Sprintf(promptTemplate,
		PlainText(article.Title),
		article.SourceName,
		article.Link,
		PlainText(article.Summary),
	)
}

// PlainText flattens an HTML fragment into whitespace-normalized text.
func PlainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(formatter.StripTags(fragment)), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Clean splits raw output into lines, drops blanks, strips numbering and drops over-long lines.
func Clean(raw string) domain.Thread {
	var out domain.Thread
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = tweetPrefix.ReplaceAllString(line, "")
		line = fractionPrefix.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" || formatter.Length(line) > formatter.MaxTweetLength {
			continue
		}
		out = append(out, line)
	}
	return out
}

func (g *Generator) debug(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
