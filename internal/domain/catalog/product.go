package catalog

import (
	"strings"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared"
)

// MaxDescriptionLength is the maximum number of characters kept in a product description
const MaxDescriptionLength = 50

const (
	fallbackProductName        = "Default Product"
	fallbackProductDescription = "Placeholder product"
)

// Product is a generated product name and its short description
type Product struct {
	Name        string `json:"product_name"`
	Description string `json:"description"`
}

// NewProduct creates a product, truncating the description to MaxDescriptionLength runes
func NewProduct(name, description string) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	return Product{Name: name, Description: TruncateDescription(description)}, nil
}

// FallbackProduct is substituted whenever the naming collaborator fails
func FallbackProduct() Product {
	return Product{Name: fallbackProductName, Description: fallbackProductDescription}
}

// IsFallback reports whether p is the placeholder product
func (p Product) IsFallback() bool {
	return p == FallbackProduct()
}

// TruncateDescription cuts s to at most MaxDescriptionLength runes
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxDescriptionLength {
		return s
	}
	return string(runes[:MaxDescriptionLength])
}
