// Package product holds the scraped and normalized product records consumed by the compliance engine
package product

import "strings"

// Price holds the price block shown on a product page
type Price struct {
	// MRP is the maximum retail price, usually shown struck through
	MRP *float64 `json:"mrp"`
	// Deal is the price the shopper actually pays
	Deal *float64 `json:"deal"`
	// Discount is the discount text as displayed, e.g. "18% off"
	Discount string `json:"discount,omitempty"`
}

// ProductData is the raw set of facts a site adapter extracted from a page.
// Empty strings and nil pointers mean the adapter found nothing
type ProductData struct {
	URL      string `json:"url"`
	Site     string `json:"site,omitempty"`
	Platform string `json:"platform,omitempty"`

	Title         string `json:"title,omitempty"`
	Brand         string `json:"brand,omitempty"`
	Seller        string `json:"seller,omitempty"`
	SellerContact string `json:"seller_contact,omitempty"`
	SellerAddress string `json:"seller_address,omitempty"`

	Price      *Price   `json:"price,omitempty"`
	TotalPrice *float64 `json:"total_price,omitempty"`

	Returns     string `json:"returns,omitempty"`
	Delivery    string `json:"delivery,omitempty"`
	Warranty    string `json:"warranty,omitempty"`
	Description string `json:"description,omitempty"`
	// TechnicalDetails is a pipe separated list of "Key: Value" pairs
	TechnicalDetails string `json:"technical_details,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
	Reviews          string `json:"reviews,omitempty"`

	CountryOfOrigin   string `json:"country_of_origin,omitempty"`
	Manufacturer      string `json:"manufacturer,omitempty"`
	NetQuantity       string `json:"net_quantity,omitempty"`
	Unit              string `json:"unit,omitempty"`
	ExpiryDate        string `json:"expiry_date,omitempty"`
	Ingredients       string `json:"ingredients,omitempty"`
	FSSAILicense      string `json:"fssai_license,omitempty"`
	UsageInstructions string `json:"usage_instructions,omitempty"`
	Warnings          string `json:"warnings,omitempty"`
	GrievanceOfficer  string `json:"grievance_officer,omitempty"`
	ModelNumber       string `json:"model_number,omitempty"`
}

// DealPrice returns the deal price, or nil when none was extracted
func (p *ProductData) DealPrice() *float64 {
	if p == nil || p.Price == nil {
		return nil
	}

	return p.Price.Deal
}

// Clone returns a deep copy of the record
func (p *ProductData) Clone() *ProductData {
	if p == nil {
		return nil
	}

	out := *p
	out.TotalPrice = cloneFloat(p.TotalPrice)

	if p.Price != nil {
		out.Price = &Price{
			MRP:      cloneFloat(p.Price.MRP),
			Deal:     cloneFloat(p.Price.Deal),
			Discount: p.Price.Discount,
		}
	}

	return &out
}

// NormalizedProduct is an enrichment record produced by a normalizer. Every field is
// independently optional; an empty value means the normalizer found nothing, not that
// the page lacks the disclosure
type NormalizedProduct struct {
	Seller        string   `json:"seller,omitempty"`
	SellerContact string   `json:"seller_contact,omitempty"`
	SellerAddress string   `json:"seller_address,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Charges       string   `json:"charges,omitempty"`
	Returns       string   `json:"returns,omitempty"`
	Delivery      string   `json:"delivery,omitempty"`
	Origin        string   `json:"origin,omitempty"`
	Grievance     string   `json:"grievance,omitempty"`
	Description   string   `json:"description,omitempty"`
	Reviews       string   `json:"reviews,omitempty"`
	Title         string   `json:"title,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Quantity      string   `json:"quantity,omitempty"`
	Images        *bool    `json:"images,omitempty"`

	Warranty       string `json:"warranty,omitempty"`
	Specifications string `json:"specifications,omitempty"`
	Voltage        string `json:"voltage,omitempty"`
	Safety         string `json:"safety,omitempty"`
	EnergyRating   string `json:"energy_rating,omitempty"`
	ModelNumber    string `json:"model_number,omitempty"`
	Compatibility  string `json:"compatibility,omitempty"`

	Expiry       string `json:"expiry,omitempty"`
	Ingredients  string `json:"ingredients,omitempty"`
	FSSAI        string `json:"fssai,omitempty"`
	Allergen     string `json:"allergen,omitempty"`
	VegNonVeg    string `json:"veg_nonveg,omitempty"`
	Storage      string `json:"storage,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Nutrition    string `json:"nutrition,omitempty"`

	Disclaimer           string `json:"disclaimer,omitempty"`
	Dosage               string `json:"dosage,omitempty"`
	Guaranteed           string `json:"guaranteed,omitempty"`
	Usage                string `json:"usage,omitempty"`
	Warning              string `json:"warning,omitempty"`
	AgeLimit             string `json:"age_limit,omitempty"`
	PrescriptionRequired string `json:"prescription_required,omitempty"`

	Material         string `json:"material,omitempty"`
	Size             string `json:"size,omitempty"`
	CareInstructions string `json:"care_instructions,omitempty"`
	Publisher        string `json:"publisher,omitempty"`
	ISBN             string `json:"isbn,omitempty"`

	// Source names the normalizer that produced the record
	Source string `json:"source,omitempty"`
}

// Clone returns a deep copy of the record
func (n *NormalizedProduct) Clone() *NormalizedProduct {
	if n == nil {
		return nil
	}

	out := *n
	out.Price = cloneFloat(n.Price)

	if n.Images != nil {
		v := *n.Images
		out.Images = &v
	}

	return &out
}

// Present reports whether s carries a value once surrounding whitespace is removed
func Present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v
func Bool(v bool) *bool {
	return &v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}
