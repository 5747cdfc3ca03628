package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductCode(t *testing.T) {
	tests := []struct {
		name     string
		product  Product
		expected string
	}{
		{
			name:     "barcode preferred over plu",
			product:  Product{PLU: "10000019", Barcode: "8992702000018"},
			expected: "8992702000018",
		},
		{
			name:     "empty barcode falls back to plu",
			product:  Product{PLU: "10000019", Barcode: ""},
			expected: "10000019",
		},
		{
			name:     "whitespace barcode falls back to plu",
			product:  Product{PLU: "10000019", Barcode: "   "},
			expected: "10000019",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.product.Code())
		})
	}
}

func TestProductDisplayFallbacks(t *testing.T) {
	p := Product{PLU: "123"}
	assert.Equal(t, FallbackName, p.DisplayName())
	assert.Equal(t, FallbackPrice, p.DisplayPrice())

	p = Product{PLU: "123", Name: "Indomilk", Price: "-"}
	assert.Equal(t, "Indomilk", p.DisplayName())
	assert.Equal(t, FallbackPrice, p.DisplayPrice())

	p.Price = "Rp 12.500"
	assert.Equal(t, "Rp 12.500", p.DisplayPrice())
}
