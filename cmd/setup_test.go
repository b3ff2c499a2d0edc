package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/shelfcheck/config"
	"github.com/theopenlane/shelfcheck/internal/cloudflare"
	"github.com/theopenlane/shelfcheck/internal/ollama"
	"github.com/theopenlane/shelfcheck/internal/scraper"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	return cfg
}

func TestSetupNormalizer(t *testing.T) {
	cf, err := cloudflare.New("account", "token")
	require.NoError(t, err)

	tests := []struct {
		provider string
		cf       *cloudflare.Client
		expected string
	}{
		{"heuristic", nil, "heuristic"},
		{"", nil, "heuristic"},
		{"none", nil, "none"},
		{"ollama", nil, "ollama"},
		{"cloudflare", cf, "cloudflare"},
		{"cloudflare", nil, "heuristic"},
	}

	for _, tc := range tests {
		t.Run(tc.provider+"/"+tc.expected, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Normalizer.Provider = tc.provider

			n, err := setupNormalizer(cfg, tc.cf)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, n.Name())
		})
	}
}

func TestSetupNormalizer_OllamaSettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Normalizer.Provider = "ollama"
	cfg.Ollama.Model = "mistral"

	n, err := setupNormalizer(cfg, nil)
	require.NoError(t, err)

	client, ok := n.(*ollama.Client)
	require.True(t, ok)
	assert.Equal(t, "mistral", client.Model())
}

func TestSetupNormalizer_Unknown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Normalizer.Provider = "gpt"

	_, err := setupNormalizer(cfg, nil)
	assert.Error(t, err)
}

func TestSetupFetcher(t *testing.T) {
	cf, err := cloudflare.New("account", "token")
	require.NoError(t, err)

	cfg := testConfig(t)
	assert.IsType(t, &scraper.Fetcher{}, setupFetcher(cfg, cf))

	cfg.Scraper.Fetcher = config.FetcherCloudflare
	assert.Same(t, cf, setupFetcher(cfg, cf))
	assert.IsType(t, &scraper.Fetcher{}, setupFetcher(cfg, nil))
}

func TestSetupNotifiers(t *testing.T) {
	cfg := testConfig(t)

	assert.Nil(t, setupSlack(cfg))
	assert.Nil(t, setupTelegram(cfg))
	assert.Nil(t, setupCloudflare(cfg))

	cfg.Slack.WebhookURL = "https://hooks.slack.com/services/T/B/X"
	cfg.Telegram.Token = "token"
	cfg.Telegram.ChatID = 42

	assert.NotNil(t, setupSlack(cfg))
	assert.NotNil(t, setupTelegram(cfg))

	cfg.Telegram.ChatID = 0
	assert.Nil(t, setupTelegram(cfg), "missing chat id disables telegram")
}

func TestSetupScanner(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.DSN = filepath.Join(t.TempDir(), "scans.db")

	st, err := setupStore(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, st)

	defer func() { _ = st.Close() }()

	s, catalog, err := setupScanner(cfg, st)
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.Equal(t, catalog.Len(), s.Engine().Catalog().Len())

	cfg.Rules.Path = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err = setupScanner(cfg, nil)
	assert.Error(t, err)
}

func TestSetupStore_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Enabled = false

	st, err := setupStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, st)
}
