package catalog

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_IsValid(t *testing.T) {
	for _, c := range AllCategories() {
		t.Run(c.String(), func(t *testing.T) {
			assert.True(t, c.IsValid())
		})
	}
	assert.False(t, Category("garden").IsValid())
	assert.False(t, Category("").IsValid())
	assert.Len(t, AllCategories(), 5)
}

func TestNewProduct(t *testing.T) {
	t.Run("trims name", func(t *testing.T) {
		p, err := NewProduct("  Bath Towel ", "Soft cotton towel")
		require.NoError(t, err)
		assert.Equal(t, "Bath Towel", p.Name)
		assert.Equal(t, "Soft cotton towel", p.Description)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("   ", "x")
		assert.Error(t, err)
	})

	t.Run("truncates description", func(t *testing.T) {
		p, err := NewProduct("LED Light Bulbs", strings.Repeat("a", 80))
		require.NoError(t, err)
		assert.Len(t, p.Description, MaxDescriptionLength)
	})
}

func TestTruncateDescription_CountsRunes(t *testing.T) {
	s := strings.Repeat("é", 60)
	got := TruncateDescription(s)
	assert.Equal(t, MaxDescriptionLength, len([]rune(got)))
	assert.Equal(t, "short", TruncateDescription("short"))
}

func TestFallbackProduct(t *testing.T) {
	p := FallbackProduct()
	assert.Equal(t, "Default Product", p.Name)
	assert.Equal(t, "Placeholder product", p.Description)
	assert.True(t, p.IsFallback())
	assert.False(t, Product{Name: "Bath Towel"}.IsFallback())
}

func TestKindOf(t *testing.T) {
	statusErr := &NamingError{Kind: NamingErrorStatus, Category: CategoryBeauty, StatusCode: 500, Err: errors.New("boom")}
	assert.Equal(t, NamingErrorStatus, KindOf(statusErr))
	assert.Equal(t, NamingErrorStatus, KindOf(fmt.Errorf("wrapped: %w", statusErr)))
	assert.Equal(t, NamingErrorUnknown, KindOf(errors.New("plain")))
	assert.Contains(t, statusErr.Error(), "500")

	schemaErr := &NamingError{Kind: NamingErrorSchema, Category: CategoryClothing, Err: errors.New("missing product_name")}
	assert.Contains(t, schemaErr.Error(), "schema")
	assert.ErrorContains(t, errors.Unwrap(schemaErr), "missing product_name")
}
