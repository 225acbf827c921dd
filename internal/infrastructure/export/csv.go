// Package export writes flattened order and invoice tables and run manifests.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/sales"
)

// DateLayout is the layout of the date column
const DateLayout = "2006-01-02 15:04:05"

// CSVEncoder writes FlatRows as CSV with the FlatRowColumns header
type CSVEncoder struct {
	// Comma overrides the field delimiter when non-zero
	Comma rune
}

// Encode writes the header followed by one record per row. An empty row set
// still produces the header.
func (e CSVEncoder) Encode(w io.Writer, rows []sales.FlatRow) error {
	cw := csv.NewWriter(w)
	if e.Comma != 0 {
		cw.Comma = e.Comma
	}

	if err := cw.Write(sales.FlatRowColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(Record(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Record formats row in FlatRowColumns order. Money is fixed to two decimals
// and unset optional fields are empty.
func Record(row sales.FlatRow) []string {
	date := ""
	if !row.Date.IsZero() {
		date = row.Date.Format(DateLayout)
	}
	return []string{
		string(row.RecordType),
		row.ID,
		row.OrderID,
		date,
		row.CustomerName,
		row.Address,
		row.ProductName,
		row.ASIN,
		row.Price.StringFixed(2),
		strconv.Itoa(row.Quantity),
		row.Subtotal.StringFixed(2),
		row.ShippingCost.StringFixed(2),
		row.Tax.StringFixed(2),
		row.Total.StringFixed(2),
		string(row.OrderStatus),
		string(row.PaymentMethod),
	}
}
