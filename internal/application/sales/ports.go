package sales

import (
	"context"
	"time"

	appcatalog "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/catalog"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/sales"
)

// StoredFile describes an artifact written by an exporter or renderer
type StoredFile struct {
	Key         string
	Location    string
	ContentType string
	Size        int64
}

// NameCollector supplies the product name pool of a run
type NameCollector interface {
	Collect(ctx context.Context, rng appcatalog.Random, count int, progress appcatalog.ProgressFunc) (*appcatalog.CollectResult, error)
}

// RunSummary is what a run records about itself next to the exported tables
type RunSummary struct {
	RunID             string
	Seed              uint64
	GeneratedAt       time.Time
	ProductsRequested int
	ProductNames      []string
	NamingFallbacks   int
	OrdersRequested   int
	Orders            int
	Invoices          int
	OrderRows         int
	InvoiceRows       int
	Files             []StoredFile
}

// TableExporter persists the flattened tables of a run
type TableExporter interface {
	ExportTables(ctx context.Context, orders, invoices []sales.FlatRow) ([]StoredFile, error)
	WriteManifest(ctx context.Context, summary RunSummary) (StoredFile, error)
	// Discard removes whatever an unfinished export left in storage
	Discard(ctx context.Context) error
}

// ConfirmationRenderer turns a confirmation view into stored documents. It
// returns whatever was stored before a failure together with the error.
type ConfirmationRenderer interface {
	RenderConfirmation(ctx context.Context, view ConfirmationView) ([]StoredFile, error)
	// Engine names the PDF backend, "none" when only HTML is written
	Engine() string
}
