// Package config loads the shelfcheck service configuration
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"

	"github.com/theopenlane/shelfcheck/internal/normalize"
	"github.com/theopenlane/shelfcheck/internal/store"
)

const (
	// EnvPrefix prefixes every environment variable override
	EnvPrefix = "SHELFCHECK_"
	// FetcherColly downloads pages directly
	FetcherColly = "colly"
	// FetcherCloudflare renders pages with Cloudflare browser rendering
	FetcherCloudflare = "cloudflare"
)

// Config holds service configuration
type Config struct {
	// Server contains the HTTP server settings
	Server Server `json:"server" koanf:"server"`
	// Scraper controls how product pages are downloaded
	Scraper Scraper `json:"scraper" koanf:"scraper"`
	// Normalizer selects the normalized record provider
	Normalizer Normalizer `json:"normalizer" koanf:"normalizer"`
	// Cloudflare holds the browser rendering credentials
	Cloudflare Cloudflare `json:"cloudflare" koanf:"cloudflare"`
	// Ollama holds the local model settings
	Ollama Ollama `json:"ollama" koanf:"ollama"`
	// Storage configures scan persistence
	Storage Storage `json:"storage" koanf:"storage"`
	// Rules configures the rule catalog
	Rules Rules `json:"rules" koanf:"rules"`
	// Notify controls when alerts are sent
	Notify Notify `json:"notify" koanf:"notify"`
	// Slack holds the webhook notifier settings
	Slack Slack `json:"slack" koanf:"slack"`
	// Telegram holds the bot notifier settings
	Telegram Telegram `json:"telegram" koanf:"telegram"`
}

// Server contains the HTTP server settings
type Server struct {
	// Debug enables debug logging
	Debug bool `json:"debug" koanf:"debug" default:"false"`
	// Pretty enables human readable logging
	Pretty bool `json:"pretty" koanf:"pretty" default:"false"`
	// Listen is the address the server binds to
	Listen string `json:"listen" koanf:"listen" default:":8080"`
	// ReadTimeout bounds reading a request
	ReadTimeout time.Duration `json:"readTimeout" koanf:"readTimeout" default:"30s"`
	// WriteTimeout bounds writing a response
	WriteTimeout time.Duration `json:"writeTimeout" koanf:"writeTimeout" default:"180s"`
	// RequestTimeout bounds handler execution
	RequestTimeout time.Duration `json:"requestTimeout" koanf:"requestTimeout" default:"150s"`
	// ShutdownGracePeriod is how long in-flight requests get on shutdown
	ShutdownGracePeriod time.Duration `json:"shutdownGracePeriod" koanf:"shutdownGracePeriod" default:"10s"`
	// MaxBodySize limits request bodies in bytes
	MaxBodySize int64 `json:"maxBodySize" koanf:"maxBodySize" default:"102400"`
}

// Scraper controls how product pages are downloaded
type Scraper struct {
	// Fetcher is colly or cloudflare
	Fetcher string `json:"fetcher" koanf:"fetcher" default:"colly"`
	// Timeout bounds a single page download
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"30s"`
	// UserAgent overrides the browser user agent sent with requests
	UserAgent string `json:"userAgent" koanf:"userAgent"`
	// MaxBodySize limits downloaded pages in bytes
	MaxBodySize int `json:"maxBodySize" koanf:"maxBodySize" default:"10485760"`
}

// Normalizer selects the normalized record provider
type Normalizer struct {
	// Provider is heuristic, cloudflare, ollama or none
	Provider string `json:"provider" koanf:"provider" default:"heuristic"`
	// Timeout bounds a single normalization
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"60s"`
}

// Cloudflare holds the browser rendering credentials
type Cloudflare struct {
	// AccountID is the Cloudflare account identifier
	AccountID string `json:"accountId" koanf:"accountId" sensitive:"true"`
	// APIToken is a token with Browser Rendering permissions
	APIToken string `json:"apiToken" koanf:"apiToken" sensitive:"true"`
	// RequestTimeout bounds each API call
	RequestTimeout time.Duration `json:"requestTimeout" koanf:"requestTimeout" default:"60s"`
}

// Ollama holds the local model settings
type Ollama struct {
	// BaseURL is the Ollama server address
	BaseURL string `json:"baseUrl" koanf:"baseUrl" default:"http://localhost:11434"`
	// Model is the model used for normalization
	Model string `json:"model" koanf:"model" default:"llama3"`
	// RequestTimeout bounds each generate call
	RequestTimeout time.Duration `json:"requestTimeout" koanf:"requestTimeout" default:"90s"`
}

// Storage configures scan persistence
type Storage struct {
	// Enabled turns on persistence and the history endpoints
	Enabled bool `json:"enabled" koanf:"enabled" default:"true"`
	// Driver is sqlite or postgres
	Driver string `json:"driver" koanf:"driver" default:"sqlite"`
	// DSN is the sqlite file path or postgres connection string
	DSN string `json:"dsn" koanf:"dsn" default:"./shelfcheck.db" sensitive:"true"`
}

// Rules configures the rule catalog
type Rules struct {
	// Path loads the catalog from a YAML file instead of the built-in rules
	Path string `json:"path" koanf:"path"`
}

// Notify controls when alerts are sent
type Notify struct {
	// Enabled sends alerts for risky scans unless a request opts out
	Enabled bool `json:"enabled" koanf:"enabled" default:"true"`
	// MaxRiskScore alerts on scans scoring at or below this value
	MaxRiskScore int `json:"maxRiskScore" koanf:"maxRiskScore" default:"50"`
	// Timeout bounds each notifier call
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"10s"`
	// LinkBase is the public base URL used to link alerts back to stored scans
	LinkBase string `json:"linkBase" koanf:"linkBase"`
}

// Slack holds the webhook notifier settings
type Slack struct {
	// WebhookURL is the incoming webhook, empty disables slack alerts
	WebhookURL string `json:"webhookUrl" koanf:"webhookUrl" sensitive:"true"`
	// Username is the display name of alert messages
	Username string `json:"username" koanf:"username" default:"shelfcheck"`
	// RequestTimeout bounds each webhook call
	RequestTimeout time.Duration `json:"requestTimeout" koanf:"requestTimeout" default:"10s"`
}

// Telegram holds the bot notifier settings
type Telegram struct {
	// Token is the bot token, empty disables telegram alerts
	Token string `json:"token" koanf:"token" sensitive:"true"`
	// ChatID is the chat receiving alerts
	ChatID int64 `json:"chatId" koanf:"chatId"`
	// APIURL overrides the Bot API server
	APIURL string `json:"apiUrl" koanf:"apiUrl"`
	// RequestTimeout bounds each Bot API call
	RequestTimeout time.Duration `json:"requestTimeout" koanf:"requestTimeout" default:"10s"`
}

// Load builds the configuration from struct defaults, then the YAML file at cfgFile
// when it exists, then SHELFCHECK_ environment variables
func Load(cfgFile *string) (*Config, error) {
	k := koanf.New(".")

	conf := &Config{}
	defaults.SetDefaults(conf)

	if err := k.Load(structs.Provider(conf, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	if cfgFile != nil && *cfgFile != "" {
		if err := loadFile(k, *cfgFile); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	if err := k.UnmarshalWithConf("", conf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// loadFile reads the YAML file, skipping it when it does not exist
func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	return nil
}

// envKeyMapper maps SHELFCHECK_SERVER_MAXBODYSIZE to the known key server.maxBodySize.
// Unknown variables map to their lowercased dotted form
func envKeyMapper(known []string) func(string) string {
	canonical := make(map[string]string, len(known))
	for _, key := range known {
		canonical[strings.ToLower(key)] = key
	}

	return func(s string) string {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
		if c, ok := canonical[key]; ok {
			return c
		}

		return key
	}
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.Scraper.Fetcher {
	case FetcherColly, FetcherCloudflare:
	default:
		return fmt.Errorf("%w: unknown scraper fetcher %q", ErrInvalidConfig, c.Scraper.Fetcher)
	}

	if _, err := normalize.ParseProvider(c.Normalizer.Provider); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Storage.Enabled {
		switch store.Driver(c.Storage.Driver) {
		case store.DriverSQLite, store.DriverPostgres:
		default:
			return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
		}
	}

	return nil
}
