package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Listen != ":8080" {
		t.Errorf("expected default listen :8080, got %s", cfg.Server.Listen)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected default read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 180*time.Second {
		t.Errorf("expected default write timeout 180s, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.MaxBodySize != 100*1024 {
		t.Errorf("expected default max body size 102400, got %d", cfg.Server.MaxBodySize)
	}
	if cfg.Scraper.Fetcher != FetcherColly {
		t.Errorf("expected default fetcher colly, got %s", cfg.Scraper.Fetcher)
	}
	if cfg.Normalizer.Provider != "heuristic" {
		t.Errorf("expected default normalizer heuristic, got %s", cfg.Normalizer.Provider)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.DSN != "./shelfcheck.db" || !cfg.Storage.Enabled {
		t.Errorf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Notify.MaxRiskScore != 50 || !cfg.Notify.Enabled {
		t.Errorf("unexpected notify defaults: %+v", cfg.Notify)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" || cfg.Ollama.Model != "llama3" {
		t.Errorf("unexpected ollama defaults: %+v", cfg.Ollama)
	}
	if cfg.Slack.Username != "shelfcheck" {
		t.Errorf("expected default slack username shelfcheck, got %s", cfg.Slack.Username)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := Load(&path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Listen != ":8080" {
		t.Errorf("expected default listen, got %s", cfg.Server.Listen)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9090"
  requestTimeout: 45s
  maxBodySize: 2048
normalizer:
  provider: ollama
ollama:
  model: mistral
notify:
  maxRiskScore: 70
telegram:
  token: abc
  chatId: 42
`)

	cfg, err := Load(&path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Listen != ":9090" {
		t.Errorf("expected listen :9090, got %s", cfg.Server.Listen)
	}
	if cfg.Server.RequestTimeout != 45*time.Second {
		t.Errorf("expected request timeout 45s, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBodySize != 2048 {
		t.Errorf("expected max body size 2048, got %d", cfg.Server.MaxBodySize)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected untouched read timeout to keep its default, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Normalizer.Provider != "ollama" || cfg.Ollama.Model != "mistral" {
		t.Errorf("unexpected normalizer settings: %+v %+v", cfg.Normalizer, cfg.Ollama)
	}
	if cfg.Notify.MaxRiskScore != 70 {
		t.Errorf("expected max risk score 70, got %d", cfg.Notify.MaxRiskScore)
	}
	if cfg.Telegram.Token != "abc" || cfg.Telegram.ChatID != 42 {
		t.Errorf("unexpected telegram settings: %+v", cfg.Telegram)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  maxBodySize: 2048
storage:
  driver: sqlite
`)

	t.Setenv("SHELFCHECK_SERVER_MAXBODYSIZE", "4096")
	t.Setenv("SHELFCHECK_SERVER_WRITETIMEOUT", "2m")
	t.Setenv("SHELFCHECK_STORAGE_DRIVER", "postgres")
	t.Setenv("SHELFCHECK_STORAGE_DSN", "postgres://localhost/shelfcheck")
	t.Setenv("SHELFCHECK_NOTIFY_ENABLED", "false")
	t.Setenv("SHELFCHECK_SLACK_WEBHOOKURL", "https://hooks.slack.com/services/T/B/X")

	cfg, err := Load(&path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.MaxBodySize != 4096 {
		t.Errorf("expected env max body size 4096, got %d", cfg.Server.MaxBodySize)
	}
	if cfg.Server.WriteTimeout != 2*time.Minute {
		t.Errorf("expected env write timeout 2m, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.Driver != "postgres" || cfg.Storage.DSN != "postgres://localhost/shelfcheck" {
		t.Errorf("unexpected storage settings: %+v", cfg.Storage)
	}
	if cfg.Notify.Enabled {
		t.Error("expected notifications disabled by env")
	}
	if cfg.Slack.WebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Errorf("unexpected slack webhook: %s", cfg.Slack.WebhookURL)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"fetcher", "scraper:\n  fetcher: curl\n"},
		{"normalizer", "normalizer:\n  provider: gpt\n"},
		{"driver", "storage:\n  driver: mysql\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.body)

			_, err := Load(&path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoad_DisabledStorageSkipsDriverCheck(t *testing.T) {
	path := writeConfig(t, "storage:\n  enabled: false\n  driver: mysql\n")

	if _, err := Load(&path); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "server: [unterminated\n")

	_, err := Load(&path)
	if !errors.Is(err, ErrConfigLoad) {
		t.Errorf("expected ErrConfigLoad, got %v", err)
	}
}

func TestEnvKeyMapper(t *testing.T) {
	mapKey := envKeyMapper([]string{"server.maxBodySize", "telegram.chatId"})

	cases := map[string]string{
		"SHELFCHECK_SERVER_MAXBODYSIZE": "server.maxBodySize",
		"SHELFCHECK_TELEGRAM_CHATID":    "telegram.chatId",
		"SHELFCHECK_UNKNOWN_SETTING":    "unknown.setting",
	}

	for in, expected := range cases {
		if got := mapKey(in); got != expected {
			t.Errorf("envKeyMapper(%q): expected %q, got %q", in, expected, got)
		}
	}
}
