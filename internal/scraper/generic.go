package scraper

import (
	"slices"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	wappalyzer "github.com/projectdiscovery/wappalyzergo"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/shelfcheck/internal/domain"
	"github.com/theopenlane/shelfcheck/internal/product"
)

// ecommerceCategory is the wappalyzer category assigned to shop platforms
const ecommerceCategory = "Ecommerce"

// knownPlatforms are preferred in order when several shop technologies match
var knownPlatforms = []string{
	"Shopify",
	"WooCommerce",
	"Magento",
	"BigCommerce",
	"PrestaShop",
	"OpenCart",
	"Salesforce Commerce Cloud",
	"Wix eCommerce",
	"Squarespace Commerce",
	"Dukaan",
}

// genericEcommerceTechnologies match on nearly every shop and never name the platform
var genericEcommerceTechnologies = map[string]struct{}{
	"Cart Functionality": {},
}

// GenericExtractor reads the metadata most storefronts publish for link previews
type GenericExtractor struct {
	once   sync.Once
	client *wappalyzer.Wappalyze
	err    error
}

// NewGenericExtractor returns an extractor for sites without a dedicated adapter.
// The fingerprint database is loaded on first use
func NewGenericExtractor() *GenericExtractor {
	return &GenericExtractor{}
}

// Site implements Extractor
func (e *GenericExtractor) Site() domain.Site {
	return domain.SiteGeneric
}

// Extract implements Extractor
func (e *GenericExtractor) Extract(page *Page) (*product.ProductData, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, err
	}

	p := &product.ProductData{
		URL:      page.URL,
		Site:     string(domain.SiteGeneric),
		Platform: e.Platform(page),
		Title: truncate(firstNonEmpty(
			metaContent(doc, `meta[property="og:title"]`, `meta[name="twitter:title"]`),
			firstText(doc, "h1", "title"),
		), maxTitleLength),
		Description: truncate(metaContent(doc, `meta[name="description"]`, `meta[property="og:description"]`), maxDescriptionLength),
		Brand:       firstNonEmpty(metaContent(doc, `meta[property="og:brand"]`, `meta[property="product:brand"]`), firstText(doc, `[itemprop="brand"]`)),
		ImageURL:    metaContent(doc, `meta[property="og:image"]`),
	}

	deal := parseAmount(metaContent(doc, `meta[property="product:price:amount"]`, `meta[property="og:price:amount"]`))
	if deal == nil {
		deal = extractRupees(documentText(page))
	}

	if deal != nil {
		p.Price = &product.Price{Deal: deal}
	}

	return p, nil
}

// Platform names the shop platform serving the page, e.g. "Shopify", or "" when none is recognized
func (e *GenericExtractor) Platform(page *Page) string {
	e.once.Do(func() {
		e.client, e.err = wappalyzer.New()
	})

	if e.err != nil {
		log.Debug().Err(e.err).Msg("platform fingerprinting unavailable")

		return ""
	}

	fingerprints := e.client.FingerprintWithInfo(page.Headers, page.HTML)

	var platforms []string

	for tech, info := range fingerprints {
		name, _, _ := strings.Cut(tech, ":")
		if _, skip := genericEcommerceTechnologies[name]; skip {
			continue
		}

		if slices.Contains(knownPlatforms, name) || slices.Contains(info.Categories, ecommerceCategory) {
			platforms = append(platforms, name)
		}
	}

	if len(platforms) == 0 {
		return ""
	}

	for _, known := range knownPlatforms {
		if slices.Contains(platforms, known) {
			return known
		}
	}

	slices.Sort(platforms)

	return platforms[0]
}

// metaContent returns the content attribute of the first matching meta tag
func metaContent(doc *goquery.Document, selectors ...string) string {
	return firstAttr(doc, "content", selectors...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
