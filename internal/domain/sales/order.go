package sales

import (
	"fmt"
	"slices"
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LineItem is one product entry in an order or invoice
type LineItem struct {
	ProductName string
	ASIN        string
	UnitPrice   valueobject.Money
	Quantity    int
}

// NewLineItem creates a line item, checking identifier format and price/quantity bounds
func NewLineItem(productName, asin string, unitPrice valueobject.Money, quantity int) (LineItem, error) {
	if productName == "" {
		return LineItem{}, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if !ValidASIN(asin) {
		return LineItem{}, shared.NewDomainError("INVALID_ASIN", fmt.Sprintf("ASIN %q must be 10 characters over A-Z0-9", asin))
	}
	lo, hi := UnitPriceRange()
	if !unitPrice.Within(lo, hi) {
		return LineItem{}, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Unit price %s outside %s..%s", unitPrice.Format(), lo.Format(), hi.Format()))
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity must be between %d and %d", MinQuantity, MaxQuantity))
	}
	return LineItem{
		ProductName: productName,
		ASIN:        asin,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	}, nil
}

// LineTotal returns unit price times quantity
func (i LineItem) LineTotal() valueobject.Money {
	return i.UnitPrice.MultiplyByInt(int64(i.Quantity))
}

// Customer holds the fake buyer details of an order
type Customer struct {
	Name    string
	Email   string
	Address string // single line
}

// OrderDraft carries the random draws an Order is computed from
type OrderDraft struct {
	ID             string
	Date           time.Time
	Customer       Customer
	Items          []LineItem
	ShippingMethod ShippingMethod
	ShippingCost   valueobject.Money // ignored for free methods
	TaxRate        decimal.Decimal
	Status         OrderStatus
	DeliveryDays   int // days from Date to delivery, only for delivered orders
}

// Order is a synthesized purchase. Its financial fields are computed once in NewOrder.
type Order struct {
	ID             string
	Date           time.Time
	Customer       Customer
	Items          []LineItem
	Subtotal       valueobject.Money // sum of line totals
	ShippingMethod ShippingMethod
	ShippingCost   valueobject.Money
	Tax            valueobject.Money
	Total          valueobject.Money
	Status         OrderStatus
	DeliveryDate   *time.Time // nil unless Status is Delivered
}

// NewOrder computes subtotal, tax and total from a draft
func NewOrder(d OrderDraft) (*Order, error) {
	if !ValidOrderID(d.ID) {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", fmt.Sprintf("Order id %q must match DDD-DDDDDDD-DDDDDDD", d.ID))
	}
	if d.Date.IsZero() {
		return nil, shared.NewDomainError("INVALID_ORDER_DATE", "Order date cannot be empty")
	}
	if n := len(d.Items); n < MinItemsPerOrder || n > MaxItemsPerOrder {
		return nil, shared.NewDomainError("INVALID_ITEMS",
			fmt.Sprintf("Order must have %d to %d items, got %d", MinItemsPerOrder, MaxItemsPerOrder, n))
	}
	if !d.ShippingMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_METHOD", fmt.Sprintf("Unknown shipping method %q", d.ShippingMethod))
	}
	if !d.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", d.Status))
	}
	if d.TaxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	shipping := valueobject.ZeroUSD()
	if !d.ShippingMethod.IsFree() {
		if d.ShippingCost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
		}
		shipping = d.ShippingCost.RoundCents()
	}

	var deliveryDate *time.Time
	if d.Status == OrderStatusDelivered {
		if d.DeliveryDays < MinDeliveryDays || d.DeliveryDays > MaxDeliveryDays {
			return nil, shared.NewDomainError("INVALID_DELIVERY_DAYS", fmt.Sprintf("Delivery must be %d to %d days after the order", MinDeliveryDays, MaxDeliveryDays))
		}
		delivered := d.Date.AddDate(0, 0, d.DeliveryDays)
		deliveryDate = &delivered
	}

	subtotal := valueobject.ZeroUSD()
	for _, item := range d.Items {
		subtotal = subtotal.MustAdd(item.LineTotal())
	}
	tax := subtotal.Multiply(d.TaxRate).RoundCents()
	total := subtotal.MustAdd(shipping).MustAdd(tax).RoundCents()

	return &Order{
		ID:             d.ID,
		Date:           d.Date,
		Customer:       d.Customer,
		Items:          slices.Clone(d.Items),
		Subtotal:       subtotal,
		ShippingMethod: d.ShippingMethod,
		ShippingCost:   shipping,
		Tax:            tax,
		Total:          total,
		Status:         d.Status,
		DeliveryDate:   deliveryDate,
	}, nil
}

// PreTaxTotal returns subtotal plus shipping
func (o *Order) PreTaxTotal() valueobject.Money {
	return o.Subtotal.MustAdd(o.ShippingCost)
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// BaseRow projects the order-level columns of a flattened row
func (o *Order) BaseRow() FlatRow {
	return FlatRow{
		RecordType:   RecordKindOrders,
		ID:           o.ID,
		OrderID:      o.ID,
		Date:         o.Date,
		CustomerName: o.Customer.Name,
		Address:      o.Customer.Address,
		Subtotal:     o.Subtotal,
		ShippingCost: o.ShippingCost,
		Tax:          o.Tax,
		Total:        o.Total,
		OrderStatus:  o.Status,
	}
}

// LineItems returns the order's items
func (o *Order) LineItems() []LineItem {
	return o.Items
}
