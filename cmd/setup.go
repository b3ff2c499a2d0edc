package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/shelfcheck/config"
	"github.com/theopenlane/shelfcheck/internal/cloudflare"
	"github.com/theopenlane/shelfcheck/internal/compliance"
	"github.com/theopenlane/shelfcheck/internal/normalize"
	"github.com/theopenlane/shelfcheck/internal/ollama"
	"github.com/theopenlane/shelfcheck/internal/rules"
	"github.com/theopenlane/shelfcheck/internal/scanner"
	"github.com/theopenlane/shelfcheck/internal/scraper"
	"github.com/theopenlane/shelfcheck/internal/slack"
	"github.com/theopenlane/shelfcheck/internal/store"
	"github.com/theopenlane/shelfcheck/internal/telegram"
)

// loadConfig reads the config file named by --config and applies the logging flags
func loadConfig() (*config.Config, error) {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.Server.Debug = k.Bool("debug")
	cfg.Server.Pretty = k.Bool("pretty")

	return cfg, nil
}

// setupCatalog loads the rule catalog from the configured path, or the built-in rules
func setupCatalog(cfg *config.Config) (*rules.Catalog, error) {
	if cfg.Rules.Path == "" {
		return rules.Default()
	}

	catalog, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, err
	}

	log.Info().Str("path", cfg.Rules.Path).Int("rules", catalog.Len()).Msg("loaded rule catalog")

	return catalog, nil
}

// setupScanner wires the scan pipeline from config. st may be nil to disable persistence
func setupScanner(cfg *config.Config, st *store.Store) (*scanner.Scanner, *rules.Catalog, error) {
	catalog, err := setupCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}

	engine, err := compliance.NewEngine(catalog)
	if err != nil {
		return nil, nil, err
	}

	cf := setupCloudflare(cfg)

	normalizer, err := setupNormalizer(cfg, cf)
	if err != nil {
		return nil, nil, err
	}

	opts := []scanner.ScanOption{
		scanner.WithFetcher(setupFetcher(cfg, cf)),
		scanner.WithNormalizer(normalizer),
		scanner.WithFetchTimeout(cfg.Scraper.Timeout),
		scanner.WithNormalizeTimeout(cfg.Normalizer.Timeout),
		scanner.WithNotifyTimeout(cfg.Notify.Timeout),
		scanner.WithNotify(cfg.Notify.Enabled),
		scanner.WithMaxRiskScore(cfg.Notify.MaxRiskScore),
	}

	if st != nil {
		opts = append(opts, scanner.WithStore(st))
	}

	if c := setupSlack(cfg); c != nil {
		opts = append(opts, scanner.WithNotifiers(c))
	}

	if n := setupTelegram(cfg); n != nil {
		opts = append(opts, scanner.WithNotifiers(n))
	}

	s, err := scanner.New(engine, opts...)
	if err != nil {
		return nil, nil, err
	}

	return s, catalog, nil
}

// setupStore opens the scan store, returning nil when storage is disabled
func setupStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	if !cfg.Storage.Enabled {
		log.Info().Msg("scan storage disabled, skipping")
		return nil, nil
	}

	st, err := store.Open(ctx, store.Driver(cfg.Storage.Driver), cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Storage.Driver).Msg("scan storage configured")

	return st, nil
}

// setupFetcher returns the Cloudflare renderer when selected and configured, otherwise the colly fetcher
func setupFetcher(cfg *config.Config, cf *cloudflare.Client) scanner.Fetcher {
	if cfg.Scraper.Fetcher == config.FetcherCloudflare {
		if cf != nil {
			log.Info().Msg("fetching product pages with cloudflare browser rendering")
			return cf
		}

		log.Warn().Msg("cloudflare fetcher selected but cloudflare is not configured, using colly")
	}

	opts := []scraper.FetcherOption{
		scraper.WithTimeout(cfg.Scraper.Timeout),
		scraper.WithMaxBodySize(cfg.Scraper.MaxBodySize),
	}

	if cfg.Scraper.UserAgent != "" {
		opts = append(opts, scraper.WithUserAgent(cfg.Scraper.UserAgent))
	}

	return scraper.NewFetcher(opts...)
}

// setupNormalizer builds the configured normalizer. A cloudflare normalizer without
// credentials falls back to the heuristic one
func setupNormalizer(cfg *config.Config, cf *cloudflare.Client) (normalize.Normalizer, error) {
	provider, err := normalize.ParseProvider(cfg.Normalizer.Provider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case normalize.ProviderCloudflare:
		if cf != nil {
			return cf, nil
		}

		log.Warn().Msg("cloudflare normalizer selected but cloudflare is not configured, using heuristic")

		return normalize.NewHeuristic(), nil
	case normalize.ProviderOllama:
		client := ollama.New(
			ollama.WithBaseURL(cfg.Ollama.BaseURL),
			ollama.WithModel(cfg.Ollama.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Ollama.RequestTimeout}),
		)

		log.Info().Str("model", client.Model()).Msg("ollama normalizer configured")

		return client, nil
	case normalize.ProviderNone:
		return normalize.None{}, nil
	default:
		return normalize.NewHeuristic(), nil
	}
}

// setupCloudflare initializes the Cloudflare client from config, returning nil when unconfigured
func setupCloudflare(cfg *config.Config) *cloudflare.Client {
	if cfg.Cloudflare.AccountID == "" || cfg.Cloudflare.APIToken == "" {
		log.Debug().Msg("cloudflare not configured, skipping")
		return nil
	}

	opts := []cloudflare.Option{
		cloudflare.WithHTTPClient(&http.Client{Timeout: cfg.Cloudflare.RequestTimeout}),
	}

	if cfg.Scraper.UserAgent != "" {
		opts = append(opts, cloudflare.WithUserAgent(cfg.Scraper.UserAgent))
	}

	client, err := cloudflare.New(cfg.Cloudflare.AccountID, cfg.Cloudflare.APIToken, opts...)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize cloudflare client")
		return nil
	}

	log.Info().Msg("cloudflare browser rendering configured")

	return client
}

// setupSlack initializes the Slack webhook client from config, returning nil when unconfigured
func setupSlack(cfg *config.Config) *slack.Client {
	if cfg.Slack.WebhookURL == "" {
		log.Info().Msg("slack notifications not configured, skipping")
		return nil
	}

	client, err := slack.New(
		cfg.Slack.WebhookURL,
		slack.WithHTTPClient(&http.Client{Timeout: cfg.Slack.RequestTimeout}),
		slack.WithUsername(cfg.Slack.Username),
		slack.WithLinkBase(cfg.Notify.LinkBase),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize slack client")
		return nil
	}

	log.Info().Msg("slack notifications configured")

	return client
}

// setupTelegram initializes the Telegram notifier from config, returning nil when unconfigured
func setupTelegram(cfg *config.Config) *telegram.Notifier {
	if cfg.Telegram.Token == "" {
		log.Info().Msg("telegram notifications not configured, skipping")
		return nil
	}

	opts := []telegram.Option{
		telegram.WithHTTPClient(&http.Client{Timeout: cfg.Telegram.RequestTimeout}),
	}

	if cfg.Telegram.APIURL != "" {
		opts = append(opts, telegram.WithAPIURL(cfg.Telegram.APIURL))
	}

	n, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.ChatID, opts...)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize telegram notifier")
		return nil
	}

	log.Info().Int64("chat_id", cfg.Telegram.ChatID).Msg("telegram notifications configured")

	return n
}
