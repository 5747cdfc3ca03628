package domain

import "strings"

// Fallback display values for catalog rows imported with missing fields.
const (
	FallbackName  = "Nama Tidak Tersedia"
	FallbackPrice = "Rp 0,-"
)

// Product represents a catalog item looked up by PLU or barcode.
type Product struct {
	PLU      string `json:"plu"`
	Barcode  string `json:"barcode,omitempty"`
	Name     string `json:"name,omitempty"`
	Price    string `json:"price,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Code returns the code to render on a label: the barcode when present,
// otherwise the PLU. A product therefore always yields a renderable code.
func (p *Product) Code() string {
	if strings.TrimSpace(p.Barcode) != "" {
		return p.Barcode
	}
	return p.PLU
}

// DisplayName returns the product name, or the fixed placeholder when the
// catalog row has none.
func (p *Product) DisplayName() string {
	if strings.TrimSpace(p.Name) == "" {
		return FallbackName
	}
	return p.Name
}

// DisplayPrice returns the display price. Rows without a price are stored
// with "-" or an empty string and render as the fixed placeholder.
func (p *Product) DisplayPrice() string {
	price := strings.TrimSpace(p.Price)
	if price == "" || price == "-" {
		return FallbackPrice
	}
	return p.Price
}
