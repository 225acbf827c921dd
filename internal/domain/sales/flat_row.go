package sales

import (
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared/valueobject"
)

// FlatRowColumns is the exported column order. Downstream tools depend on it.
var FlatRowColumns = []string{
	"record_type",
	"id",
	"order_id",
	"date",
	"customer_name",
	"address",
	"product_name",
	"asin",
	"price",
	"quantity",
	"subtotal",
	"shipping_cost",
	"tax",
	"total",
	"order_status",
	"payment_method",
}

// FlatRow is one line item of an order or invoice with the record's fields repeated.
// OrderStatus is set only for orders and PaymentMethod only for invoices.
type FlatRow struct {
	RecordType    RecordKind
	ID            string
	OrderID       string
	Date          time.Time
	CustomerName  string
	Address       string
	ProductName   string
	ASIN          string
	Price         valueobject.Money
	Quantity      int
	Subtotal      valueobject.Money
	ShippingCost  valueobject.Money
	Tax           valueobject.Money
	Total         valueobject.Money
	OrderStatus   OrderStatus
	PaymentMethod PaymentMethod
}

// Flattenable is a record that expands into one FlatRow per line item
type Flattenable interface {
	BaseRow() FlatRow
	LineItems() []LineItem
}

// Flatten expands records into rows, ordered by record and then by item
func Flatten[R Flattenable](records []R) []FlatRow {
	size := 0
	for _, r := range records {
		size += len(r.LineItems())
	}
	rows := make([]FlatRow, 0, size)
	for _, r := range records {
		base := r.BaseRow()
		for _, item := range r.LineItems() {
			row := base
			row.ProductName = item.ProductName
			row.ASIN = item.ASIN
			row.Price = item.UnitPrice
			row.Quantity = item.Quantity
			rows = append(rows, row)
		}
	}
	return rows
}
