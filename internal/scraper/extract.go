package scraper

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/theopenlane/shelfcheck/internal/domain"
	"github.com/theopenlane/shelfcheck/internal/product"
)

const (
	// maxTitleLength caps extracted titles
	maxTitleLength = 150
	// maxSnippetLength caps returns/delivery snippets
	maxSnippetLength = 120
	// maxDescriptionLength caps page-text descriptions
	maxDescriptionLength = 200
)

var (
	// rupeePattern matches the first rupee amount, e.g. "₹ 1,299.00"
	rupeePattern = regexp.MustCompile(`₹\s*([\d,]+(?:\.\d+)?)`)
	// numberPattern matches a bare grouped number
	numberPattern = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)
	// percentOffPattern matches "18% off"
	percentOffPattern = regexp.MustCompile(`(?i)(\d+)%\s*off`)
)

// Extractor turns a downloaded page into a ProductData record
type Extractor interface {
	// Site names the storefront the extractor understands
	Site() domain.Site
	// Extract parses the page. Missing data is left empty, never an error
	Extract(page *Page) (*product.ProductData, error)
}

// Extractors selects the extractor for each site
type Extractors struct {
	amazon   Extractor
	flipkart Extractor
	generic  Extractor
}

// NewExtractors returns the built-in Amazon, Flipkart and generic extractors
func NewExtractors() *Extractors {
	return &Extractors{
		amazon:   &AmazonExtractor{},
		flipkart: &FlipkartExtractor{},
		generic:  NewGenericExtractor(),
	}
}

// For returns the extractor for site, falling back to the generic one
func (e *Extractors) For(site domain.Site) Extractor {
	switch site {
	case domain.SiteAmazon:
		return e.amazon
	case domain.SiteFlipkart:
		return e.flipkart
	default:
		return e.generic
	}
}

// parseDocument loads page HTML into goquery
func parseDocument(page *Page) (*goquery.Document, error) {
	if page == nil || len(page.HTML) == 0 {
		return nil, ErrEmptyPage
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	return doc, nil
}

// firstText returns the collapsed text of the first selector that yields non-empty text
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := collapseSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}

	return ""
}

// firstAttr returns the first non-empty attribute value across selectors
func firstAttr(doc *goquery.Document, attr string, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}

	return ""
}

// documentText returns the visible text of the whole document
func documentText(page *Page) string {
	return PageText(page.HTML)
}

// extractRupees finds the first rupee amount in text
func extractRupees(text string) *float64 {
	m := rupeePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	return parseAmount(m[1])
}

// parseAmount parses the first grouped number in s, e.g. "1,299." -> 1299
func parseAmount(s string) *float64 {
	m := numberPattern.FindString(s)
	if m == "" {
		return nil
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.ReplaceAll(m, ",", ""), "."), 64)
	if err != nil {
		return nil
	}

	return &v
}

// discountText renders a computed discount when the deal undercuts the MRP
func discountText(mrp, deal *float64) string {
	if mrp == nil || deal == nil || *mrp <= 0 || *mrp <= *deal {
		return ""
	}

	return fmt.Sprintf("%d%% off", int(math.Round((*mrp-*deal) / *mrp * 100)))
}

// tableRows collects "key: value" rows from th/td pairs in the selection's tables
func tableRows(sel *goquery.Selection) [][2]string {
	var rows [][2]string

	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td")
		if cells.Length() < 2 {
			return
		}

		rows = append(rows, [2]string{
			collapseSpace(cells.Eq(0).Text()),
			collapseSpace(cells.Eq(1).Text()),
		})
	})

	return rows
}
