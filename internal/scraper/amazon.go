package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/theopenlane/shelfcheck/internal/domain"
	"github.com/theopenlane/shelfcheck/internal/product"
)

var (
	// amazonDiscountPattern matches the discount badge, e.g. "-18%" or "18% off"
	amazonDiscountPattern = regexp.MustCompile(`(?i)^-?\d+%(\s*off)?$`)
	// amazonReturnsIDPattern matches the returns policy containers
	amazonReturnsIDPattern = regexp.MustCompile(`(?i)RETURNS_POLICY|RETURNS-FEATURE`)
	// amazonReturnWindowPattern matches "10 days return" style text
	amazonReturnWindowPattern = regexp.MustCompile(`(?i)\b\d+\s*-?\s*days?\s+return`)
	// amazonTechTablePattern matches the technical details tables
	amazonTechTablePattern = regexp.MustCompile(`(?i)productDetails_techSpec|productDetails_detailBullets`)
	// amazonDetailsHeadingPattern matches the details section headings
	amazonDetailsHeadingPattern = regexp.MustCompile(`(?i)Technical Details|Product Details`)
)

// bidiCutset trims spaces and the direction marks Amazon pads detail bullets with
const bidiCutset = " \u200e\u200f"

// AmazonExtractor understands Amazon product detail pages
type AmazonExtractor struct{}

// Site implements Extractor
func (e *AmazonExtractor) Site() domain.Site {
	return domain.SiteAmazon
}

// Extract implements Extractor
func (e *AmazonExtractor) Extract(page *Page) (*product.ProductData, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, err
	}

	text := documentText(page)
	mrp, deal := amazonPrices(doc, text)

	p := &product.ProductData{
		URL:              page.URL,
		Site:             string(domain.SiteAmazon),
		Title:            truncate(firstText(doc, "#productTitle", "h1 span"), maxTitleLength),
		Brand:            amazonBrand(firstText(doc, "#bylineInfo")),
		Seller:           firstText(doc, "#sellerProfileTriggerId"),
		Returns:          amazonReturns(doc),
		Delivery:         truncate(firstText(doc, "#deliveryBlockMessage", "#mir-layout-DELIVERY_BLOCK"), maxSnippetLength),
		TechnicalDetails: amazonTechnicalDetails(doc),
		ImageURL:         firstAttr(doc, "src", "#landingImage", "#imgBlkFront"),
		Reviews:          firstText(doc, "#acrCustomerReviewText"),
	}

	if p.Seller == "" {
		p.Seller = "Amazon"
	}

	if mrp != nil || deal != nil {
		if mrp == nil {
			mrp = deal
		}

		if deal == nil {
			deal = mrp
		}

		p.Price = &product.Price{MRP: mrp, Deal: deal, Discount: amazonDiscount(doc)}
		if p.Price.Discount == "" {
			p.Price.Discount = discountText(mrp, deal)
		}
	}

	var bullets []string

	doc.Find("#feature-bullets li").Each(func(_ int, li *goquery.Selection) {
		if t := collapseSpace(li.Text()); t != "" {
			bullets = append(bullets, t)
		}
	})

	if len(bullets) > 0 {
		p.Description = strings.Join(bullets, " ")
	} else {
		p.Description = truncate(text, maxDescriptionLength)
	}

	return p, nil
}

// amazonPrices reads the struck-through MRP and the first non-struck deal price,
// falling back to the first rupee amount on the page as the deal price
func amazonPrices(doc *goquery.Document, text string) (mrp, deal *float64) {
	mrp = amazonPriceBlock(doc.Find("span.a-price.a-text-price").First())

	doc.Find("span.a-price").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("a-text-price") {
			return true
		}

		deal = amazonPriceBlock(s)

		return false
	})

	if mrp == nil && deal == nil {
		deal = extractRupees(text)
	}

	return mrp, deal
}

// amazonPriceBlock parses an a-price block from its whole/fraction parts or its offscreen text
func amazonPriceBlock(s *goquery.Selection) *float64 {
	if s.Length() == 0 {
		return nil
	}

	whole := strings.TrimSpace(s.Find("span.a-price-whole").First().Text())
	if whole != "" {
		whole = strings.TrimSuffix(strings.ReplaceAll(whole, ",", ""), ".")
		if frac := strings.TrimSpace(s.Find("span.a-price-fraction").First().Text()); frac != "" {
			whole += "." + frac
		}

		return parseAmount(whole)
	}

	return parseAmount(s.Find("span.a-offscreen").First().Text())
}

// amazonDiscount returns an explicit discount badge if the page shows one
func amazonDiscount(doc *goquery.Document) string {
	var discount string

	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := collapseSpace(s.Text())
		if amazonDiscountPattern.MatchString(t) {
			discount = t
			return false
		}

		return true
	})

	return discount
}

// amazonReturns reads the returns policy block, or the shortest element mentioning a return window
func amazonReturns(doc *goquery.Document) string {
	var returns string

	doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		if !amazonReturnsIDPattern.MatchString(id) {
			return true
		}

		returns = collapseSpace(s.Text())

		return returns == ""
	})

	if returns != "" {
		return truncate(returns, maxSnippetLength)
	}

	doc.Find("span, li, div").Each(func(_ int, s *goquery.Selection) {
		t := collapseSpace(s.Text())
		if !amazonReturnWindowPattern.MatchString(t) {
			return
		}

		if returns == "" || len(t) < len(returns) {
			returns = t
		}
	})

	return truncate(returns, maxSnippetLength)
}

// amazonTechnicalDetails flattens the technical details tables, the detail bullets
// list, or the first table after a details heading
func amazonTechnicalDetails(doc *goquery.Document) string {
	var rows [][2]string

	doc.Find("table[id]").Each(func(_ int, t *goquery.Selection) {
		id, _ := t.Attr("id")
		if amazonTechTablePattern.MatchString(id) {
			rows = append(rows, tableRows(t)...)
		}
	})

	if len(rows) == 0 {
		doc.Find("#detailBullets_feature_div li").Each(func(_ int, li *goquery.Selection) {
			key, val, ok := strings.Cut(collapseSpace(li.Text()), ":")
			if ok {
				rows = append(rows, [2]string{strings.Trim(key, bidiCutset), strings.Trim(val, bidiCutset)})
			}
		})
	}

	if len(rows) == 0 {
		doc.Find("h1, h2, h3, span").EachWithBreak(func(_ int, h *goquery.Selection) bool {
			if !amazonDetailsHeadingPattern.MatchString(h.Text()) {
				return true
			}

			table := h.Parent().NextAllFiltered("table").First()
			if table.Length() == 0 {
				table = h.Parent().Find("table").First()
			}

			rows = tableRows(table)

			return len(rows) == 0
		})
	}

	return product.JoinTechnicalDetails(rows)
}

// amazonBrand cleans the byline, e.g. "Visit the Acme Store" or "Brand: Acme"
func amazonBrand(byline string) string {
	b := strings.TrimPrefix(byline, "Brand:")
	b = strings.TrimPrefix(strings.TrimSpace(b), "Visit the ")
	b = strings.TrimSuffix(b, " Store")

	return strings.TrimSpace(b)
}
