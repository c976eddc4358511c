package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TeamNewsBot/internal/domain"
)

const (
	configPathEnv = "TEAMNEWSBOT_CONFIG"

	twitterAPIKeyEnv            = "TWITTER_API_KEY"
	twitterAPISecretEnv         = "TWITTER_API_SECRET"
	twitterAccessTokenEnv       = "TWITTER_ACCESS_TOKEN"
	twitterAccessTokenSecretEnv = "TWITTER_ACCESS_TOKEN_SECRET"
	twitterBearerTokenEnv       = "TWITTER_BEARER_TOKEN"

	aiProviderEnv   = "AI_PROVIDER"
	openAIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	groqKeyEnv      = "GROQ_API_KEY"
	groqModelEnv    = "GROQ_MODEL"
	geminiKeyEnv    = "GEMINI_API_KEY"
	geminiModelEnv  = "GEMINI_MODEL"
	intervalEnv     = "CHECK_INTERVAL_HOURS"
	debugEnv        = "DEBUG"
	logLevelEnv     = "LOG_LEVEL"
	ledgerPathEnv   = "POSTED_ARTICLES_FILE"
	defaultProvider = "groq"
)

// ErrProviderNotConfigured is returned when the selected text-generation provider is unusable.
var ErrProviderNotConfigured = errors.New("text-generation provider not configured")

// Config holds every setting the bot needs; it is built once and passed to constructors.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Twitter   TwitterConfig   `yaml:"twitter"`
	AI        AIConfig        `yaml:"ai"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sources   []SourceConfig  `yaml:"sources"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TwitterConfig carries OAuth1 user-context credentials plus the optional bearer token.
type TwitterConfig struct {
	Endpoint          string `yaml:"endpoint"`
	APIKey            string `yaml:"apiKey"`
	APISecret         string `yaml:"apiSecret"`
	AccessToken       string `yaml:"accessToken"`
	AccessTokenSecret string `yaml:"accessTokenSecret"`
	BearerToken       string `yaml:"bearerToken"`
}

// AIConfig selects exactly one text-generation provider.
type AIConfig struct {
	Provider string         `yaml:"provider"`
	OpenAI   ProviderConfig `yaml:"openai"`
	Groq     ProviderConfig `yaml:"groq"`
	Gemini   ProviderConfig `yaml:"gemini"`
}

// ProviderConfig describes how to reach one backend.
type ProviderConfig struct {
	APIKey   string `yaml:"apiKey"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

// PipelineConfig tunes filtering and pacing.
type PipelineConfig struct {
	RecencyHours float64       `yaml:"recencyHours"`
	PostDelay    time.Duration `yaml:"postDelay"`
	ThreadDelay  time.Duration `yaml:"threadDelay"`
	UserAgent    string        `yaml:"userAgent"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}

// LedgerConfig points at the flat posted-articles file.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig defines how often the default run repeats.
type SchedulerConfig struct {
	IntervalHours int    `yaml:"intervalHours"`
	Timezone      string `yaml:"timezone"`
}

// Spec renders the interval as a cron descriptor.
func (s SchedulerConfig) Spec() string {
	hours := s.IntervalHours
	if hours <= 0 {
		hours = 6
	}
	return fmt.Sprintf("@every %dh", hours)
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SourceConfig describes one RSS/Atom feed.
type SourceConfig struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Keywords []string `yaml:"keywords"`
}

// Load reads .env, the YAML file (explicit path or TEAMNEWSBOT_CONFIG) and environment overrides.
func Load(path string, logger *slog.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil && logger != nil {
		logger.Debug(".env not loaded, using process environment", "error", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DomainSources converts configured feeds into immutable domain sources.
func (c Config) DomainSources() []domain.Source {
	out := make([]domain.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		keywords := make([]string, len(s.Keywords))
		copy(keywords, s.Keywords)
		out = append(out, domain.Source{Name: s.Name, FeedURL: s.URL, Keywords: keywords})
	}
	return out
}

// ValidatePublishing reports every missing credential required to post live.
func (c Config) ValidatePublishing() error {
	required := []struct {
		name  string
		value string
	}{
		{twitterAPIKeyEnv, c.Twitter.APIKey},
		{twitterAPISecretEnv, c.Twitter.APISecret},
		{twitterAccessTokenEnv, c.Twitter.AccessToken},
		{twitterAccessTokenSecretEnv, c.Twitter.AccessTokenSecret},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ActiveProvider resolves the selected backend; a missing key is a configuration error.
func (a AIConfig) ActiveProvider() (string, ProviderConfig, error) {
	name := strings.ToLower(strings.TrimSpace(a.Provider))
	var p ProviderConfig
	switch name {
	case "openai":
		p = a.OpenAI
	case "groq":
		p = a.Groq
	case "gemini":
		p = a.Gemini
	default:
		return "", ProviderConfig{}, fmt.Errorf("%w: unknown provider %q", ErrProviderNotConfigured, a.Provider)
	}
	if p.APIKey == "" {
		return "", ProviderConfig{}, fmt.Errorf("%w: missing API key for %s", ErrProviderNotConfigured, name)
	}
	return name, p, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Twitter.APIKey, twitterAPIKeyEnv)
	setString(&c.Twitter.APISecret, twitterAPISecretEnv)
	setString(&c.Twitter.AccessToken, twitterAccessTokenEnv)
	setString(&c.Twitter.AccessTokenSecret, twitterAccessTokenSecretEnv)
	setString(&c.Twitter.BearerToken, twitterBearerTokenEnv)

	setString(&c.AI.Provider, aiProviderEnv)
	setString(&c.AI.OpenAI.APIKey, openAIKeyEnv)
	setString(&c.AI.OpenAI.Model, openAIModelEnv)
	setString(&c.AI.Groq.APIKey, groqKeyEnv)
	setString(&c.AI.Groq.Model, groqModelEnv)
	setString(&c.AI.Gemini.APIKey, geminiKeyEnv)
	setString(&c.AI.Gemini.Model, geminiModelEnv)

	setString(&c.Ledger.Path, ledgerPathEnv)
	setString(&c.Logging.Level, logLevelEnv)

	if v := os.Getenv(debugEnv); strings.EqualFold(v, "true") {
		c.Logging.Level = "debug"
	}

	if v := os.Getenv(intervalEnv); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return fmt.Errorf("invalid %s %q", intervalEnv, v)
		}
		c.Scheduler.IntervalHours = hours
	}

	return nil
}

// setString treats an empty environment value as unset.
func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	mergeString(&base.Twitter.Endpoint, override.Twitter.Endpoint)
	mergeString(&base.Twitter.APIKey, override.Twitter.APIKey)
	mergeString(&base.Twitter.APISecret, override.Twitter.APISecret)
	mergeString(&base.Twitter.AccessToken, override.Twitter.AccessToken)
	mergeString(&base.Twitter.AccessTokenSecret, override.Twitter.AccessTokenSecret)
	mergeString(&base.Twitter.BearerToken, override.Twitter.BearerToken)

	mergeString(&base.AI.Provider, override.AI.Provider)
	mergeProvider(&base.AI.OpenAI, override.AI.OpenAI)
	mergeProvider(&base.AI.Groq, override.AI.Groq)
	mergeProvider(&base.AI.Gemini, override.AI.Gemini)

	if override.Pipeline.RecencyHours > 0 {
		base.Pipeline.RecencyHours = override.Pipeline.RecencyHours
	}
	if override.Pipeline.PostDelay > 0 {
		base.Pipeline.PostDelay = override.Pipeline.PostDelay
	}
	if override.Pipeline.ThreadDelay > 0 {
		base.Pipeline.ThreadDelay = override.Pipeline.ThreadDelay
	}
	if override.Pipeline.FetchTimeout > 0 {
		base.Pipeline.FetchTimeout = override.Pipeline.FetchTimeout
	}
	mergeString(&base.Pipeline.UserAgent, override.Pipeline.UserAgent)

	mergeString(&base.Ledger.Path, override.Ledger.Path)

	if override.Scheduler.IntervalHours > 0 {
		base.Scheduler.IntervalHours = override.Scheduler.IntervalHours
	}
	mergeString(&base.Scheduler.Timezone, override.Scheduler.Timezone)

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeProvider(dst *ProviderConfig, v ProviderConfig) {
	mergeString(&dst.APIKey, v.APIKey)
	mergeString(&dst.Model, v.Model)
	mergeString(&dst.Endpoint, v.Endpoint)
}

func defaultConfig() Config {
	teamKeywords := []string{"chargers", "herbert"}
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Twitter: TwitterConfig{Endpoint: "https://api.twitter.com/2/tweets"},
		AI: AIConfig{
			Provider: defaultProvider,
			OpenAI:   ProviderConfig{Model: "gpt-3.5-turbo", Endpoint: "https://api.openai.com/v1"},
			Groq:     ProviderConfig{Model: "groq/compound", Endpoint: "https://api.groq.com/openai/v1"},
			Gemini:   ProviderConfig{Model: "gemini-pro", Endpoint: "https://generativelanguage.googleapis.com/v1beta"},
		},
		Pipeline: PipelineConfig{
			RecencyHours: 24,
			PostDelay:    30 * time.Second,
			ThreadDelay:  2 * time.Second,
			UserAgent:    "TeamNewsBot/1.0",
			FetchTimeout: 20 * time.Second,
		},
		Ledger:    LedgerConfig{Path: "posted_articles.txt"},
		Scheduler: SchedulerConfig{IntervalHours: 6, Timezone: "UTC"},
		Sources: []SourceConfig{
			{Name: "ESPN", URL: "https://www.espn.com/espn/rss/nfl/news?team=SD", Keywords: teamKeywords},
			{Name: "PFF", URL: "https://www.pff.com/feed/teams/27", Keywords: teamKeywords},
			{Name: "LA Daily News", URL: "https://www.dailynews.com/sports/nfl/los-angeles-chargers/feed/", Keywords: teamKeywords},
		},
	}
}
