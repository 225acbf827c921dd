package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_Orders(t *testing.T) {
	first := testOrder(t)

	d := testDraft(t)
	d.ID = "113-7654321-7654321"
	d.Items = []LineItem{testItem(t, "Hiking Boots", "89.00", 1)}
	d.Status = OrderStatusDelivered
	d.DeliveryDays = 4
	second, err := NewOrder(d)
	require.NoError(t, err)

	rows := Flatten([]*Order{first, second})
	require.Len(t, rows, 3)

	assert.Equal(t, "Bath Towel", rows[0].ProductName)
	assert.Equal(t, "LED Light Bulbs", rows[1].ProductName)
	assert.Equal(t, "Hiking Boots", rows[2].ProductName)

	for i, row := range rows[:2] {
		assert.Equal(t, RecordKindOrders, row.RecordType, "row %d", i)
		assert.Equal(t, first.ID, row.ID)
		assert.Equal(t, first.ID, row.OrderID)
		assert.Equal(t, first.Date, row.Date)
		assert.Equal(t, first.Customer.Address, row.Address)
		assert.True(t, row.Total.Equals(first.Total))
		assert.Equal(t, OrderStatusShipped, row.OrderStatus)
		assert.Empty(t, row.PaymentMethod)
	}
	assert.Equal(t, "19.99", rows[0].Price.StringFixed(2))
	assert.Equal(t, 2, rows[0].Quantity)
	assert.Equal(t, OrderStatusDelivered, rows[2].OrderStatus)
}

func TestFlatten_Invoices(t *testing.T) {
	order := testOrder(t)
	inv, err := NewInvoice(order, 1, PaymentCreditCard)
	require.NoError(t, err)

	rows := Flatten([]*Invoice{inv})
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, RecordKindInvoices, row.RecordType)
		assert.Equal(t, "INV-3456789", row.ID)
		assert.Equal(t, order.ID, row.OrderID)
		assert.Equal(t, inv.Date, row.Date)
		assert.Equal(t, PaymentCreditCard, row.PaymentMethod)
		assert.Empty(t, row.OrderStatus)
	}
	assert.Equal(t, order.Items[1].ASIN, rows[1].ASIN)
}

func TestFlatten_RowCountIsSumOfItems(t *testing.T) {
	counts := []int{1, 5, 3, 2}
	orders := make([]*Order, 0, len(counts))
	for _, n := range counts {
		d := testDraft(t)
		d.Items = nil
		for i := 0; i < n; i++ {
			d.Items = append(d.Items, testItem(t, "Bath Towel", "10.00", 1))
		}
		o, err := NewOrder(d)
		require.NoError(t, err)
		orders = append(orders, o)
	}
	assert.Len(t, Flatten(orders), 11)
	assert.Empty(t, Flatten([]*Order{}))
}

func TestFlatRowColumns(t *testing.T) {
	assert.Equal(t, []string{
		"record_type", "id", "order_id", "date", "customer_name", "address",
		"product_name", "asin", "price", "quantity", "subtotal", "shipping_cost",
		"tax", "total", "order_status", "payment_method",
	}, FlatRowColumns)
}
