package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, twitterAPIKeyEnv, twitterAPISecretEnv, twitterAccessTokenEnv,
		twitterAccessTokenSecretEnv, twitterBearerTokenEnv, aiProviderEnv, openAIKeyEnv,
		openAIModelEnv, groqKeyEnv, groqModelEnv, geminiKeyEnv, geminiModelEnv,
		intervalEnv, debugEnv, logLevelEnv, ledgerPathEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if len(cfg.Sources) != 3 {
		t.Fatalf("expected 3 default sources, got %d", len(cfg.Sources))
	}
	if cfg.AI.Provider != "groq" {
		t.Fatalf("unexpected default provider: %s", cfg.AI.Provider)
	}
	if cfg.Pipeline.RecencyHours != 24 {
		t.Fatalf("unexpected recency window: %v", cfg.Pipeline.RecencyHours)
	}
	if cfg.Pipeline.PostDelay != 30*time.Second || cfg.Pipeline.ThreadDelay != 2*time.Second {
		t.Fatalf("unexpected delays: %v / %v", cfg.Pipeline.PostDelay, cfg.Pipeline.ThreadDelay)
	}
	if cfg.Ledger.Path != "posted_articles.txt" {
		t.Fatalf("unexpected ledger path: %s", cfg.Ledger.Path)
	}
	if cfg.Scheduler.Spec() != "@every 6h" {
		t.Fatalf("unexpected schedule: %s", cfg.Scheduler.Spec())
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bot.yaml")
	raw := `
logging:
  level: warn
pipeline:
  recencyHours: 12
  postDelay: 5s
sources:
  - name: Custom
    url: https://example.org/feed
    keywords: [bolts]
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(intervalEnv, "2")
	t.Setenv(debugEnv, "True")
	t.Setenv(openAIModelEnv, "gpt-4o-mini")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Fatalf("DEBUG=true should force debug level, got %s", cfg.Logging.Level)
	}
	if cfg.Pipeline.RecencyHours != 12 || cfg.Pipeline.PostDelay != 5*time.Second {
		t.Fatalf("file values not merged: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.ThreadDelay != 2*time.Second {
		t.Fatalf("unset file value should keep default, got %v", cfg.Pipeline.ThreadDelay)
	}
	if cfg.Scheduler.IntervalHours != 2 {
		t.Fatalf("interval override ignored: %d", cfg.Scheduler.IntervalHours)
	}
	if cfg.AI.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("model override ignored: %s", cfg.AI.OpenAI.Model)
	}

	sources := cfg.DomainSources()
	if len(sources) != 1 || sources[0].Name != "Custom" || sources[0].Keywords[0] != "bolts" {
		t.Fatalf("unexpected sources: %+v", sources)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv(intervalEnv, "soon")

	if _, err := Load("", nil); err == nil {
		t.Fatal("expected error for non-numeric interval")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestValidatePublishing(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Twitter.APIKey = "key"
	cfg.Twitter.AccessToken = "token"

	err := cfg.ValidatePublishing()
	if err == nil {
		t.Fatal("expected missing credentials error")
	}
	for _, name := range []string{twitterAPISecretEnv, twitterAccessTokenSecretEnv} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q does not mention %s", err, name)
		}
	}

	cfg.Twitter.APISecret = "secret"
	cfg.Twitter.AccessTokenSecret = "token-secret"
	if err := cfg.ValidatePublishing(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActiveProvider(t *testing.T) {
	t.Parallel()

	ai := defaultConfig().AI
	if _, _, err := ai.ActiveProvider(); !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured without key, got %v", err)
	}

	ai.Groq.APIKey = "gsk"
	name, p, err := ai.ActiveProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "groq" || p.Model != "groq/compound" {
		t.Fatalf("unexpected provider %s %+v", name, p)
	}

	ai.Provider = "claude"
	if _, _, err := ai.ActiveProvider(); !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured for unknown provider, got %v", err)
	}
}
