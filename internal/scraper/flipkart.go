package scraper

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/theopenlane/shelfcheck/internal/domain"
	"github.com/theopenlane/shelfcheck/internal/product"
)

// flipkartReturnsPattern matches the first text mentioning returns or refunds
var flipkartReturnsPattern = regexp.MustCompile(`(?i)return|refund`)

// FlipkartExtractor understands Flipkart product pages
type FlipkartExtractor struct{}

// Site implements Extractor
func (e *FlipkartExtractor) Site() domain.Site {
	return domain.SiteFlipkart
}

// Extract implements Extractor
func (e *FlipkartExtractor) Extract(page *Page) (*product.ProductData, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, err
	}

	text := documentText(page)
	priceText := firstText(doc, `[data-testid="price"]`, "div._30jeqT", "._30jeqT")

	p := &product.ProductData{
		URL:              page.URL,
		Site:             string(domain.SiteFlipkart),
		Title:            truncate(firstText(doc, "span.B_NuCI", `span[dir="auto"]`, "._2WkVRV"), maxTitleLength),
		Seller:           firstText(doc, "#sellerName span", `a[href*="/seller"]`, ".sellerName"),
		Returns:          flipkartReturns(doc),
		TechnicalDetails: product.JoinTechnicalDetails(tableRows(doc.Find("table._14cfVK"))),
		ImageURL:         firstAttr(doc, "src", "img._396cs4", "img._2r_T1I"),
		Description:      truncate(text, maxDescriptionLength),
	}

	if p.Seller == "" {
		p.Seller = "Unknown seller"
	}

	deal := extractRupees(priceText)
	mrp := extractRupees(firstText(doc, "div._3I9_wc"))

	if deal != nil || mrp != nil {
		p.Price = &product.Price{MRP: mrp, Deal: deal}

		if m := percentOffPattern.FindStringSubmatch(priceText); m != nil {
			p.Price.Discount = m[1] + "% off"
		} else {
			p.Price.Discount = discountText(mrp, deal)
		}
	}

	return p, nil
}

// flipkartReturns returns the first text node mentioning returns or refunds
func flipkartReturns(doc *goquery.Document) string {
	var returns string

	doc.Find("body *").Not("script, style").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, n := range s.Nodes {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.TextNode {
					continue
				}

				if t := collapseSpace(c.Data); t != "" && flipkartReturnsPattern.MatchString(t) {
					returns = truncate(t, maxSnippetLength)
					return false
				}
			}
		}

		return true
	})

	return returns
}
