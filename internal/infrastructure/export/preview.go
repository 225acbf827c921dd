package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/sales"
)

// PreviewRows is the number of rows shown by WritePreview
const PreviewRows = 5

// WritePreview prints a title and the first limit rows of a table as aligned
// columns. A non-positive limit uses PreviewRows.
func WritePreview(w io.Writer, title string, rows []sales.FlatRow, limit int) error {
	if limit <= 0 {
		limit = PreviewRows
	}
	if len(rows) < limit {
		limit = len(rows)
	}

	if _, err := fmt.Fprintf(w, "%s (%d rows)\n", title, len(rows)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(sales.FlatRowColumns, "\t"))
	for _, row := range rows[:limit] {
		fmt.Fprintln(tw, strings.Join(Record(row), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(rows) > limit {
		_, err := fmt.Fprintf(w, "... %d more\n", len(rows)-limit)
		return err
	}
	return nil
}
