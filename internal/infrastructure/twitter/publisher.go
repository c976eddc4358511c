package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"golang.org/x/time/rate"

	"TeamNewsBot/internal/config"
	"TeamNewsBot/internal/ports"
)

const defaultEndpoint = "https://api.twitter.com/2/tweets"

// Publisher posts to the X API v2 create-post endpoint.
type Publisher struct {
	endpoint    string
	bearerToken string
	client      *http.Client
	chainDelay  time.Duration
	logger      *slog.Logger
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher signs requests with OAuth1 user context when consumer and access
// credentials are present, otherwise falls back to the bearer token.
func NewPublisher(cfg config.TwitterConfig, chainDelay time.Duration, logger *slog.Logger) *Publisher {
	var client *http.Client
	if cfg.APIKey != "" && cfg.AccessToken != "" {
		oauthCfg := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
		client = oauthCfg.Client(context.Background(), oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret))
		client.Timeout = 20 * time.Second
	}

	p := NewPublisherWithClient(cfg.Endpoint, client, chainDelay, logger)
	if client == nil {
		p.bearerToken = cfg.BearerToken
	}
	return p
}

// NewPublisherWithClient uses an already-authenticated HTTP client.
func NewPublisherWithClient(endpoint string, client *http.Client, chainDelay time.Duration, logger *slog.Logger) *Publisher {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Publisher{
		endpoint:   endpoint,
		client:     client,
		chainDelay: chainDelay,
		logger:     logger,
	}
}

type createRequest struct {
	Text  string       `json:"text"`
	Reply *replyParams `json:"reply,omitempty"`
}

type replyParams struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type createResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Publish creates a standalone post and returns its id.
func (p *Publisher) Publish(ctx context.Context, text string) (string, error) {
	return p.create(ctx, text, "")
}

// PublishChain posts texts in order, each replying to the previous one.
// The first failure stops the chain; already-posted segments stay live.
func (p *Publisher) PublishChain(ctx context.Context, texts []string) bool {
	limiter := rate.NewLimiter(rate.Every(p.chainDelay), 1)

	parentID := ""
	for i, text := range texts {
		if err := limiter.Wait(ctx); err != nil {
			p.error("thread interrupted", "segment", i+1, "total", len(texts), "error", err)
			return false
		}

		id, err := p.create(ctx, text, parentID)
		if err != nil {
			p.error("post thread segment", "segment", i+1, "total", len(texts), "error", err)
			return false
		}
		p.info("thread segment posted", "segment", i+1, "total", len(texts), "id", id)
		parentID = id
	}
	return len(texts) > 0
}

func (p *Publisher) create(ctx context.Context, text, replyTo string) (string, error) {
	payload := createRequest{Text: text}
	if replyTo != "" {
		payload.Reply = &replyParams{InReplyToTweetID: replyTo}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.bearerToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("twitter error %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var decoded createResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Data.ID == "" {
		return "", fmt.Errorf("twitter response missing post id")
	}

	return decoded.Data.ID, nil
}

func (p *Publisher) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Publisher) error(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
