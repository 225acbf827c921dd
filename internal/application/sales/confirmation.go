package sales

import (
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/sales"
)

const (
	confirmationDateLayout = "Monday, January 02, 2006"
	expressShippingSpeed   = "Express"
)

// ConfirmationView holds the already formatted fields of an order confirmation
type ConfirmationView struct {
	OrderID          string
	CustomerName     string
	DeliveryDate     string
	ShippingSpeed    string
	ItemSubtotal     string
	ShippingHandling string
	TotalBeforeTax   string
	EstimatedTax     string
	OrderTotal       string
}

// BuildConfirmation formats order for the confirmation document. One delivery
// day, one or two days after the order, is shown as both ends of the window.
func BuildConfirmation(rng sales.IntSource, order *sales.Order) ConfirmationView {
	arrives := order.Date.AddDate(0, 0, rng.IntRange(1, 2))

	return ConfirmationView{
		OrderID:          order.ID,
		CustomerName:     order.Customer.Name,
		DeliveryDate:     FormatDeliveryRange(arrives, arrives),
		ShippingSpeed:    expressShippingSpeed,
		ItemSubtotal:     order.Subtotal.Format(),
		ShippingHandling: order.ShippingCost.Format(),
		TotalBeforeTax:   order.PreTaxTotal().Format(),
		EstimatedTax:     order.Tax.Format(),
		OrderTotal:       order.Total.Format(),
	}
}

// FormatDeliveryRange renders "Monday, January 02, 2006 - Tuesday, January 03, 2006"
func FormatDeliveryRange(from, to time.Time) string {
	return from.Format(confirmationDateLayout) + " - " + to.Format(confirmationDateLayout)
}
