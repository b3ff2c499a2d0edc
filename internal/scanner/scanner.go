// Package scanner runs the product page compliance pipeline: fetch, extract,
// normalize, evaluate, persist and alert
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/shelfcheck/internal/compliance"
	"github.com/theopenlane/shelfcheck/internal/darkpattern"
	"github.com/theopenlane/shelfcheck/internal/domain"
	"github.com/theopenlane/shelfcheck/internal/normalize"
	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/scraper"
	"github.com/theopenlane/shelfcheck/internal/types"
)

// Scanner performs product page compliance scans
type Scanner struct {
	// options holds the configuration for scan behavior
	options    *ScanOptions
	engine     *compliance.Engine
	detector   *darkpattern.Detector
	extractors *scraper.Extractors
	now        func() time.Time
}

var _ Interface = (*Scanner)(nil)

// New creates a new scanner over the given engine
func New(engine *compliance.Engine, opts ...ScanOption) (*Scanner, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}

	options := DefaultScanOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.Fetcher == nil {
		options.Fetcher = scraper.NewFetcher(scraper.WithTimeout(options.FetchTimeout))
	}

	if options.Normalizer == nil {
		options.Normalizer = normalize.NewHeuristic()
	}

	return &Scanner{
		options:    options,
		engine:     engine,
		detector:   darkpattern.New(),
		extractors: scraper.NewExtractors(),
		now:        time.Now,
	}, nil
}

// Engine returns the compliance engine used for evaluation
func (s *Scanner) Engine() *compliance.Engine {
	return s.engine
}

// Scan fetches a product page and evaluates it. A fetch, extraction or store
// failure fails the scan; normalizer and notifier failures are logged only
func (s *Scanner) Scan(ctx context.Context, req Request) (*types.ScanResult, error) {
	u, info, err := domain.ParseURL(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	target := u.String()
	logger := log.With().Str("url", target).Str("site", string(info.Site)).Logger()

	page, err := s.fetch(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	pageText := scraper.PageText(page.HTML)

	p, err := s.extractors.For(info.Site).Extract(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	if p.URL == "" {
		p.URL = target
	}

	logger.Debug().Str("title", p.Title).Str("platform", p.Platform).Msg("extracted product data")

	n := s.normalize(ctx, p, pageText)

	result := &types.ScanResult{
		ID:        uuid.NewString(),
		URL:       target,
		ScannedAt: s.now().Unix(),
		DomainInfo: &types.DomainInfo{
			Domain:    info.Domain,
			Subdomain: info.Subdomain,
			TLD:       info.TLD,
			SLD:       info.SLD,
			Site:      string(info.Site),
		},
		Normalized:       n,
		EvaluationResult: s.Evaluate(p, n, pageText),
	}

	if n != nil {
		result.Normalizer = s.options.Normalizer.Name()
	}

	logger.Info().
		Str("category", string(result.Category)).
		Int("risk_score", result.RiskScore).
		Int("trust_score", result.TrustIndex.Score).
		Int("violations", len(result.Violations)).
		Msg("product page evaluated")

	if s.options.Store != nil && !req.SkipStore {
		if err := s.options.Store.Save(ctx, result); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
		}
	}

	if s.shouldNotify(req, result) {
		s.notify(ctx, result)
	}

	return result, nil
}

// Evaluate runs the rule engine, dark-pattern detection, trust index and merge
// over an already extracted product. It performs no I/O
func (s *Scanner) Evaluate(p *product.ProductData, n *product.NormalizedProduct, pageText string) types.EvaluationResult {
	if p == nil {
		p = &product.ProductData{}
	}

	ruleResult := s.engine.Evaluate(p, n)
	findings := s.detector.Detect(p, pageText)

	violations := make([]compliance.Violation, 0, len(ruleResult.Violations)+len(findings))
	violations = append(violations, ruleResult.Violations...)
	violations = append(violations, darkpattern.ToViolations(findings)...)

	return types.EvaluationResult{
		Category:     ruleResult.Category,
		RiskScore:    compliance.RiskScore(violations),
		Violations:   violations,
		TrustIndex:   compliance.ComputeTrustIndex(p, violations),
		Product:      product.Merge(p, n),
		DarkPatterns: findings,
		Fields:       s.engine.RequiredFields(ruleResult.Category, p, n),
	}
}

func (s *Scanner) fetch(ctx context.Context, url string) (*scraper.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.FetchTimeout)
	defer cancel()

	return s.options.Fetcher.Fetch(ctx, url)
}

// normalize enriches the product, degrading to no enrichment on failure
func (s *Scanner) normalize(ctx context.Context, p *product.ProductData, pageText string) *product.NormalizedProduct {
	ctx, cancel := context.WithTimeout(ctx, s.options.NormalizeTimeout)
	defer cancel()

	name := s.options.Normalizer.Name()

	n, err := s.options.Normalizer.Normalize(ctx, p, pageText)
	if err != nil {
		log.Warn().Err(err).Str("normalizer", name).Str("url", p.URL).Msg("normalization failed, continuing with scraped data")

		return nil
	}

	return n
}

func (s *Scanner) shouldNotify(req Request, r *types.ScanResult) bool {
	if len(s.options.Notifiers) == 0 {
		return false
	}

	enabled := s.options.Notify
	if req.Notify != nil {
		enabled = *req.Notify
	}

	return enabled && r.RiskScore <= s.options.MaxRiskScore
}

// notify fans the alert out to every notifier and waits for all of them
func (s *Scanner) notify(ctx context.Context, r *types.ScanResult) {
	var wg sync.WaitGroup

	for _, n := range s.options.Notifiers {
		wg.Go(func() {
			nctx, cancel := context.WithTimeout(ctx, s.options.NotifyTimeout)
			defer cancel()

			if err := n.Notify(nctx, r); err != nil {
				log.Error().Err(err).Str("notifier", n.Name()).Str("scan_id", r.ID).Msg("failed to send scan alert")

				return
			}

			log.Info().Str("notifier", n.Name()).Str("scan_id", r.ID).Int("risk_score", r.RiskScore).Msg("scan alert sent")
		})
	}

	wg.Wait()
}
