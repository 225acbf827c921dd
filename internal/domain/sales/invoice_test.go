package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoice(t *testing.T) {
	order := testOrder(t)

	inv, err := NewInvoice(order, 2, PaymentAmazonPay)
	require.NoError(t, err)

	assert.Equal(t, "INV-3456789", inv.ID)
	assert.Equal(t, order.ID, inv.OrderID)
	assert.Equal(t, order.Date.AddDate(0, 0, 2), inv.Date)
	assert.Equal(t, order.Customer.Name, inv.CustomerName)
	assert.Equal(t, order.Customer.Address, inv.BillingAddress)
	assert.Equal(t, order.Items, inv.Items)
	assert.True(t, inv.Subtotal.Equals(order.Subtotal))
	assert.True(t, inv.ShippingCost.Equals(order.ShippingCost))
	assert.True(t, inv.Tax.Equals(order.Tax))
	assert.True(t, inv.Total.Equals(order.Total))
	assert.Equal(t, PaymentAmazonPay, inv.PaymentMethod)
}

func TestNewInvoice_DoesNotAliasItems(t *testing.T) {
	order := testOrder(t)
	inv, err := NewInvoice(order, 0, PaymentGiftCard)
	require.NoError(t, err)

	inv.Items[0].Quantity = 3
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestNewInvoice_Errors(t *testing.T) {
	t.Run("nil order", func(t *testing.T) {
		_, err := NewInvoice(nil, 0, PaymentCreditCard)
		assert.Error(t, err)
	})

	t.Run("malformed order id", func(t *testing.T) {
		order := testOrder(t)
		order.ID = "112-ABCDEFG-1234567"
		_, err := NewInvoice(order, 0, PaymentCreditCard)
		assert.ErrorIs(t, err, ErrMalformedOrderID)
	})

	t.Run("lag out of range", func(t *testing.T) {
		_, err := NewInvoice(testOrder(t), 3, PaymentCreditCard)
		assert.Error(t, err)
		_, err = NewInvoice(testOrder(t), -1, PaymentCreditCard)
		assert.Error(t, err)
	})

	t.Run("unknown payment", func(t *testing.T) {
		_, err := NewInvoice(testOrder(t), 1, "Cash")
		assert.Error(t, err)
	})
}
