package sales

import (
	"testing"
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// scriptedInts replays queued values and then falls back to the lower bound
type scriptedInts struct {
	values []int
}

func (s *scriptedInts) IntRange(min, max int) int {
	if len(s.values) == 0 {
		return min
	}
	v := s.values[0]
	s.values = s.values[1:]
	if v < min || v > max {
		panic("scripted value out of range")
	}
	return v
}

var testOrderDate = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func testItem(t *testing.T, name, price string, qty int) LineItem {
	t.Helper()
	item, err := NewLineItem(name, "B07XJ8C8F5", valueobject.MustUSD(price), qty)
	require.NoError(t, err)
	return item
}

func testDraft(t *testing.T) OrderDraft {
	t.Helper()
	return OrderDraft{
		ID:   "112-3456789-1234567",
		Date: testOrderDate,
		Customer: Customer{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Address: "12 Analytical Way, London, NY 10001",
		},
		Items: []LineItem{
			testItem(t, "Bath Towel", "19.99", 2),
			testItem(t, "LED Light Bulbs", "7.49", 1),
		},
		ShippingMethod: ShippingStandard,
		ShippingCost:   valueobject.MustUSD("5.49"),
		TaxRate:        decimal.RequireFromString("0.0725"),
		Status:         OrderStatusShipped,
	}
}

func testOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder(testDraft(t))
	require.NoError(t, err)
	return order
}
