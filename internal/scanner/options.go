package scanner

import (
	"time"

	"github.com/theopenlane/shelfcheck/internal/normalize"
)

// ScanOptions configures the scanner behavior
type ScanOptions struct {
	// Collaborators
	Fetcher    Fetcher
	Normalizer normalize.Normalizer
	Store      Store
	Notifiers  []Notifier

	// Stage timeouts
	FetchTimeout     time.Duration
	NormalizeTimeout time.Duration
	NotifyTimeout    time.Duration

	// Alerting
	Notify       bool
	MaxRiskScore int
}

// ScanOption is a functional option for configuring scanner
type ScanOption func(*ScanOptions)

// DefaultScanOptions returns default scanner options. Fetcher and Normalizer
// are filled in by New when left unset
func DefaultScanOptions() *ScanOptions {
	return &ScanOptions{
		FetchTimeout:     30 * time.Second,
		NormalizeTimeout: 60 * time.Second,
		NotifyTimeout:    10 * time.Second,
		Notify:           true,
		MaxRiskScore:     50,
	}
}

// WithFetcher sets the page fetcher
func WithFetcher(f Fetcher) ScanOption {
	return func(o *ScanOptions) {
		o.Fetcher = f
	}
}

// WithNormalizer sets the normalizer
func WithNormalizer(n normalize.Normalizer) ScanOption {
	return func(o *ScanOptions) {
		o.Normalizer = n
	}
}

// WithStore enables persistence of scan results
func WithStore(s Store) ScanOption {
	return func(o *ScanOptions) {
		o.Store = s
	}
}

// WithNotifiers adds alert destinations
func WithNotifiers(n ...Notifier) ScanOption {
	return func(o *ScanOptions) {
		o.Notifiers = append(o.Notifiers, n...)
	}
}

// WithFetchTimeout sets the page download timeout
func WithFetchTimeout(timeout time.Duration) ScanOption {
	return func(o *ScanOptions) {
		o.FetchTimeout = timeout
	}
}

// WithNormalizeTimeout sets the normalizer timeout
func WithNormalizeTimeout(timeout time.Duration) ScanOption {
	return func(o *ScanOptions) {
		o.NormalizeTimeout = timeout
	}
}

// WithNotifyTimeout sets the per-notifier timeout
func WithNotifyTimeout(timeout time.Duration) ScanOption {
	return func(o *ScanOptions) {
		o.NotifyTimeout = timeout
	}
}

// WithNotify enables or disables alerts by default
func WithNotify(enabled bool) ScanOption {
	return func(o *ScanOptions) {
		o.Notify = enabled
	}
}

// WithMaxRiskScore sets the alert threshold. Scans scoring at or below it are alerted
func WithMaxRiskScore(score int) ScanOption {
	return func(o *ScanOptions) {
		o.MaxRiskScore = score
	}
}
