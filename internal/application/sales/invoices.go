package sales

import (
	"fmt"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/sales"
)

// InvoiceDeriver issues one invoice per order
type InvoiceDeriver struct{}

// NewInvoiceDeriver creates an InvoiceDeriver
func NewInvoiceDeriver() *InvoiceDeriver {
	return &InvoiceDeriver{}
}

// Derive returns invoices in the same order as orders. A malformed order id
// fails the whole batch.
func (d *InvoiceDeriver) Derive(rng sales.IntSource, orders []*sales.Order) ([]*sales.Invoice, error) {
	invoices := make([]*sales.Invoice, 0, len(orders))
	for i, order := range orders {
		lag := rng.IntRange(0, sales.MaxInvoiceLagDays)
		payment := pick(rng, sales.AllPaymentMethods())
		inv, err := sales.NewInvoice(order, lag, payment)
		if err != nil {
			return nil, fmt.Errorf("derive invoice for record %d: %w", i+1, err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}
