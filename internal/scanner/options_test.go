package scanner

import (
	"testing"
	"time"

	"github.com/theopenlane/shelfcheck/internal/normalize"
)

func TestDefaultScanOptions(t *testing.T) {
	opts := DefaultScanOptions()

	if opts.FetchTimeout != 30*time.Second {
		t.Errorf("Expected fetch timeout to be 30s, got %v", opts.FetchTimeout)
	}

	if opts.NormalizeTimeout != 60*time.Second {
		t.Errorf("Expected normalize timeout to be 60s, got %v", opts.NormalizeTimeout)
	}

	if opts.MaxRiskScore != 50 {
		t.Errorf("Expected max risk score to be 50, got %d", opts.MaxRiskScore)
	}

	if !opts.Notify {
		t.Error("Expected notifications to be enabled by default")
	}

	if opts.Fetcher != nil || opts.Normalizer != nil || opts.Store != nil {
		t.Error("Expected collaborators to be unset by default")
	}
}

func TestScanOptions_Timeouts(t *testing.T) {
	opts := DefaultScanOptions()

	WithFetchTimeout(5 * time.Second)(opts)
	WithNormalizeTimeout(15 * time.Second)(opts)
	WithNotifyTimeout(2 * time.Second)(opts)

	if opts.FetchTimeout != 5*time.Second {
		t.Errorf("Expected fetch timeout to be 5s, got %v", opts.FetchTimeout)
	}

	if opts.NormalizeTimeout != 15*time.Second {
		t.Errorf("Expected normalize timeout to be 15s, got %v", opts.NormalizeTimeout)
	}

	if opts.NotifyTimeout != 2*time.Second {
		t.Errorf("Expected notify timeout to be 2s, got %v", opts.NotifyTimeout)
	}
}

func TestScanOptions_Alerting(t *testing.T) {
	opts := DefaultScanOptions()

	WithNotify(false)(opts)
	WithMaxRiskScore(70)(opts)

	if opts.Notify {
		t.Error("Expected notifications to be disabled")
	}

	if opts.MaxRiskScore != 70 {
		t.Errorf("Expected max risk score to be 70, got %d", opts.MaxRiskScore)
	}
}

func TestScanOptions_WithNotifiers(t *testing.T) {
	opts := DefaultScanOptions()

	WithNotifiers(&fakeNotifier{name: "slack"})(opts)
	WithNotifiers(&fakeNotifier{name: "telegram"})(opts)

	if len(opts.Notifiers) != 2 {
		t.Fatalf("Expected 2 notifiers, got %d", len(opts.Notifiers))
	}

	if opts.Notifiers[1].Name() != "telegram" {
		t.Errorf("Expected second notifier to be telegram, got %s", opts.Notifiers[1].Name())
	}
}

func TestScanOptions_WithNormalizer(t *testing.T) {
	opts := DefaultScanOptions()

	WithNormalizer(normalize.None{})(opts)

	if opts.Normalizer.Name() != "none" {
		t.Errorf("Expected none normalizer, got %s", opts.Normalizer.Name())
	}
}
