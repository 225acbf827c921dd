package sales

import (
	"fmt"
	"slices"
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared/valueobject"
)

// Invoice is the billing record derived from exactly one Order.
// It copies the order's financials at creation and keeps only the order id as a reference.
type Invoice struct {
	ID             string
	OrderID        string
	Date           time.Time
	CustomerName   string
	BillingAddress string
	Items          []LineItem
	Subtotal       valueobject.Money
	ShippingCost   valueobject.Money
	Tax            valueobject.Money
	Total          valueobject.Money
	PaymentMethod  PaymentMethod
}

// NewInvoice derives an invoice issued lagDays after the order date
func NewInvoice(order *Order, lagDays int, payment PaymentMethod) (*Invoice, error) {
	if order == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order cannot be nil")
	}
	id, err := InvoiceIDFor(order.ID)
	if err != nil {
		return nil, err
	}
	if lagDays < 0 || lagDays > MaxInvoiceLagDays {
		return nil, shared.NewDomainError("INVALID_INVOICE_DATE", fmt.Sprintf("Invoice must be issued 0 to %d days after the order", MaxInvoiceLagDays))
	}
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", payment))
	}

	return &Invoice{
		ID:             id,
		OrderID:        order.ID,
		Date:           order.Date.AddDate(0, 0, lagDays),
		CustomerName:   order.Customer.Name,
		BillingAddress: order.Customer.Address,
		Items:          slices.Clone(order.Items),
		Subtotal:       order.Subtotal,
		ShippingCost:   order.ShippingCost,
		Tax:            order.Tax,
		Total:          order.Total,
		PaymentMethod:  payment,
	}, nil
}

// BaseRow projects the invoice-level columns of a flattened row
func (inv *Invoice) BaseRow() FlatRow {
	return FlatRow{
		RecordType:    RecordKindInvoices,
		ID:            inv.ID,
		OrderID:       inv.OrderID,
		Date:          inv.Date,
		CustomerName:  inv.CustomerName,
		Address:       inv.BillingAddress,
		Subtotal:      inv.Subtotal,
		ShippingCost:  inv.ShippingCost,
		Tax:           inv.Tax,
		Total:         inv.Total,
		PaymentMethod: inv.PaymentMethod,
	}
}

// LineItems returns the invoice's items
func (inv *Invoice) LineItems() []LineItem {
	return inv.Items
}
