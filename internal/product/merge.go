package product

import "strings"

// Merge returns a copy of p enriched with every non-empty field of n. Fields n leaves
// empty keep their original value, and neither input is modified. A non-nil normalized
// price replaces only the deal component and becomes the total price. Merging the same
// enrichment twice yields the same record as merging it once
func Merge(p *ProductData, n *NormalizedProduct) *ProductData {
	out := p.Clone()
	if out == nil {
		out = &ProductData{}
	}

	if n == nil {
		return out
	}

	overwrite(&out.Title, n.Title)
	overwrite(&out.Brand, n.Brand)
	overwrite(&out.Seller, n.Seller)
	overwrite(&out.SellerContact, n.SellerContact)
	overwrite(&out.SellerAddress, n.SellerAddress)
	overwrite(&out.Returns, n.Returns)
	overwrite(&out.Delivery, n.Delivery)
	overwrite(&out.Warranty, n.Warranty)
	overwrite(&out.Description, n.Description)
	overwrite(&out.Reviews, n.Reviews)
	overwrite(&out.CountryOfOrigin, n.Origin)
	overwrite(&out.Manufacturer, n.Manufacturer)
	overwrite(&out.ExpiryDate, n.Expiry)
	overwrite(&out.Ingredients, n.Ingredients)
	overwrite(&out.FSSAILicense, n.FSSAI)
	overwrite(&out.UsageInstructions, n.Usage)
	overwrite(&out.Warnings, n.Warning)
	overwrite(&out.GrievanceOfficer, n.Grievance)
	overwrite(&out.ModelNumber, n.ModelNumber)

	if Present(n.Quantity) {
		parts := strings.Fields(n.Quantity)
		if len(parts) >= 2 {
			out.NetQuantity = parts[0]
			out.Unit = parts[1]
		} else {
			out.NetQuantity = strings.TrimSpace(n.Quantity)
		}
	}

	if n.Price != nil {
		if out.Price == nil {
			out.Price = &Price{}
		}

		out.Price.Deal = cloneFloat(n.Price)
		out.TotalPrice = cloneFloat(n.Price)
	}

	return out
}

func overwrite(dst *string, v string) {
	if Present(v) {
		*dst = v
	}
}
