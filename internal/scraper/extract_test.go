package scraper

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/shelfcheck/internal/domain"
	"github.com/theopenlane/shelfcheck/internal/product"
)

func loadPage(t *testing.T, name, url string) *Page {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return &Page{URL: url, StatusCode: http.StatusOK, Headers: http.Header{}, HTML: b}
}

func TestExtractors_For(t *testing.T) {
	ex := NewExtractors()

	assert.Equal(t, domain.SiteAmazon, ex.For(domain.SiteAmazon).Site())
	assert.Equal(t, domain.SiteFlipkart, ex.For(domain.SiteFlipkart).Site())
	assert.Equal(t, domain.SiteGeneric, ex.For(domain.SiteGeneric).Site())
	assert.Equal(t, domain.SiteGeneric, ex.For("unknown").Site())
}

func TestExtract_EmptyPage(t *testing.T) {
	for _, e := range []Extractor{&AmazonExtractor{}, &FlipkartExtractor{}, NewGenericExtractor()} {
		_, err := e.Extract(&Page{URL: "https://example.com"})
		assert.ErrorIs(t, err, ErrEmptyPage, "site %s", e.Site())

		_, err = e.Extract(nil)
		assert.ErrorIs(t, err, ErrEmptyPage, "site %s", e.Site())
	}
}

func TestAmazonExtractor(t *testing.T) {
	page := loadPage(t, "amazon.html", "https://www.amazon.in/dp/B0TEST")

	p, err := (&AmazonExtractor{}).Extract(page)
	require.NoError(t, err)

	assert.Equal(t, "https://www.amazon.in/dp/B0TEST", p.URL)
	assert.Equal(t, "amazon", p.Site)
	assert.Equal(t, "Acme Wireless Bluetooth Earbuds with 30H Playtime", p.Title)
	assert.Equal(t, "Acme", p.Brand)
	assert.Equal(t, "Acme Retail India", p.Seller)
	assert.Equal(t, "10 days Return & Exchange", p.Returns)
	assert.Equal(t, "FREE delivery Friday, 18 October", p.Delivery)
	assert.Equal(t, "1,024 ratings", p.Reviews)
	assert.Equal(t, "https://m.media-amazon.com/images/I/earbuds.jpg", p.ImageURL)
	assert.Equal(t, "30 hours total playtime IPX5 water resistance", p.Description)
	assert.Equal(t, "Brand: Acme | Country of Origin: India | Item model number: AX-100", p.TechnicalDetails)

	require.NotNil(t, p.Price)
	require.NotNil(t, p.Price.MRP)
	require.NotNil(t, p.Price.Deal)
	assert.InDelta(t, 2499.0, *p.Price.MRP, 0.001)
	assert.InDelta(t, 1499.0, *p.Price.Deal, 0.001)
	assert.Equal(t, "-40%", p.Price.Discount)

	tech := product.ParseTechnicalDetails(p.TechnicalDetails)
	assert.Equal(t, "India", tech["country of origin"])
}

func TestAmazonExtractor_Fallbacks(t *testing.T) {
	page := loadPage(t, "amazon_minimal.html", "https://www.amazon.in/dp/B0MIN")

	p, err := (&AmazonExtractor{}).Extract(page)
	require.NoError(t, err)

	assert.Equal(t, "Plain Steel Bottle 1L", p.Title)
	assert.Equal(t, "Amazon", p.Seller, "seller defaults to the marketplace")
	assert.Empty(t, p.Brand)
	assert.Equal(t, "7 days Replacement or refund. 7 days return window applies", p.Returns)
	assert.Equal(t, "Manufacturer: Steelworks Pvt Ltd | Country of Origin: India", p.TechnicalDetails)
	assert.Contains(t, p.Description, "Plain Steel Bottle 1L")
	assert.LessOrEqual(t, len([]rune(p.Description)), maxDescriptionLength)

	require.NotNil(t, p.Price)
	assert.InDelta(t, 349.0, *p.Price.Deal, 0.001)
	assert.InDelta(t, 349.0, *p.Price.MRP, 0.001, "mrp falls back to the deal price")
	assert.Empty(t, p.Price.Discount)
}

func TestAmazonBrand(t *testing.T) {
	tests := map[string]string{
		"Visit the Acme Store": "Acme",
		"Brand: Acme":          "Acme",
		"Acme":                 "Acme",
		"":                     "",
	}

	for in, expected := range tests {
		assert.Equal(t, expected, amazonBrand(in), "byline %q", in)
	}
}

func TestFlipkartExtractor(t *testing.T) {
	page := loadPage(t, "flipkart.html", "https://www.flipkart.com/kurta/p/itm123")

	p, err := (&FlipkartExtractor{}).Extract(page)
	require.NoError(t, err)

	assert.Equal(t, "flipkart", p.Site)
	assert.Equal(t, "Acme Cotton Kurta for Men (Blue, L)", p.Title)
	assert.Equal(t, "RetailNet", p.Seller)
	assert.Equal(t, "7 Days Return Policy on this product", p.Returns)
	assert.Equal(t, "Fabric: Cotton | Country of Origin: India", p.TechnicalDetails)
	assert.Equal(t, "https://rukminim1.flixcart.com/kurta.jpg", p.ImageURL)
	assert.Contains(t, p.Description, "Acme Cotton Kurta")

	require.NotNil(t, p.Price)
	assert.InDelta(t, 799.0, *p.Price.Deal, 0.001)
	assert.InDelta(t, 1999.0, *p.Price.MRP, 0.001)
	assert.Equal(t, "60% off", p.Price.Discount)
}

func TestFlipkartExtractor_Defaults(t *testing.T) {
	page := &Page{URL: "https://www.flipkart.com/x", HTML: []byte("<html><body><p>Nothing here</p></body></html>")}

	p, err := (&FlipkartExtractor{}).Extract(page)
	require.NoError(t, err)

	assert.Equal(t, "Unknown seller", p.Seller)
	assert.Nil(t, p.Price)
	assert.Empty(t, p.Returns)
	assert.Empty(t, p.Title)
}

func TestGenericExtractor(t *testing.T) {
	page := loadPage(t, "generic.html", "https://shop.example.com/soap")

	p, err := NewGenericExtractor().Extract(page)
	require.NoError(t, err)

	assert.Equal(t, "generic", p.Site)
	assert.Equal(t, "Lavender Handmade Soap 100 g", p.Title)
	assert.Equal(t, "Cold pressed lavender soap made in small batches.", p.Description)
	assert.Equal(t, "Small Shop", p.Brand)
	assert.Equal(t, "https://shop.example.com/soap.jpg", p.ImageURL)

	require.NotNil(t, p.Price)
	assert.InDelta(t, 249.0, *p.Price.Deal, 0.001, "structured price wins over page text")
	assert.Nil(t, p.Price.MRP)
}

func TestGenericExtractor_Fallbacks(t *testing.T) {
	page := loadPage(t, "generic_bare.html", "https://widgets.example.com/basic")

	p, err := NewGenericExtractor().Extract(page)
	require.NoError(t, err)

	assert.Equal(t, "Basic Widget", p.Title, "h1 before the document title")
	assert.Equal(t, "WidgetCo", p.Brand)
	assert.Empty(t, p.Description)
	assert.Empty(t, p.Platform)

	require.NotNil(t, p.Price)
	assert.InDelta(t, 1250.0, *p.Price.Deal, 0.001)
}

func TestGenericExtractor_Platform(t *testing.T) {
	page := &Page{
		URL:     "https://store.example.com/products/mug",
		Headers: http.Header{"X-Shopify-Stage": []string{"production"}},
		HTML: []byte(`<html><head><script src="https://cdn.shopify.com/s/files/1/shop.js"></script>
<meta property="og:title" content="Mug"></head><body></body></html>`),
	}

	assert.Equal(t, "Shopify", NewGenericExtractor().Platform(page))
}
