package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	appsales "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/sales"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/sales"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// Default object keys, relative to the data directory
const (
	DefaultDataDir   = "data"
	OrdersFileName   = "orders.csv"
	InvoicesFileName = "invoices.csv"
	ManifestFileName = "manifest.yaml"

	csvContentType  = "text/csv; charset=utf-8"
	yamlContentType = "application/yaml"

	discardTimeout = 30 * time.Second
)

var _ appsales.TableExporter = (*Exporter)(nil)

// Exporter writes run tables and manifests to an ObjectStore
type Exporter struct {
	store   storage.ObjectStore
	dataDir string
	encoder CSVEncoder
	logger  *zap.Logger
}

// ExporterOption configures an Exporter
type ExporterOption func(*Exporter)

// WithDataDir changes the key prefix of exported files
func WithDataDir(dir string) ExporterOption {
	return func(e *Exporter) {
		e.dataDir = dir
	}
}

// WithLogger sets the exporter logger
func WithLogger(logger *zap.Logger) ExporterOption {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExporter creates an Exporter writing to store
func NewExporter(store storage.ObjectStore, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		store:   store,
		dataDir: DefaultDataDir,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Exporter) key(name string) string {
	if e.dataDir == "" {
		return name
	}
	return path.Join(e.dataDir, name)
}

// ExportTables writes the orders table and then the invoices table. The first
// failure, cancellation included, aborts the export and removes the tables
// already stored.
func (e *Exporter) ExportTables(ctx context.Context, orders, invoices []sales.FlatRow) ([]appsales.StoredFile, error) {
	tables := []struct {
		name string
		rows []sales.FlatRow
	}{
		{OrdersFileName, orders},
		{InvoicesFileName, invoices},
	}

	files := make([]appsales.StoredFile, 0, len(tables))
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return nil, e.abort(ctx, files, fmt.Errorf("export %s: %w", table.name, err))
		}
		var buf bytes.Buffer
		if err := e.encoder.Encode(&buf, table.rows); err != nil {
			return nil, e.abort(ctx, files, fmt.Errorf("encode %s: %w", table.name, err))
		}
		obj, err := e.store.Put(ctx, e.key(table.name), buf.Bytes(), csvContentType)
		if err != nil {
			return nil, e.abort(ctx, files, fmt.Errorf("store %s: %w", table.name, err))
		}
		e.logger.Info("table exported",
			zap.String("key", obj.Key),
			zap.String("location", obj.Location),
			zap.Int("rows", len(table.rows)),
		)
		files = append(files, toStoredFile(obj))
	}
	return files, nil
}

func (e *Exporter) abort(ctx context.Context, stored []appsales.StoredFile, cause error) error {
	if len(stored) == 0 {
		return cause
	}
	if err := e.Discard(ctx); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Discard removes the tables and manifest of the data directory. It is used
// when a run stops half way, and still runs when ctx is already cancelled.
func (e *Exporter) Discard(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()

	var errs []error
	for _, name := range []string{OrdersFileName, InvoicesFileName, ManifestFileName} {
		key := e.key(name)
		if err := e.store.Delete(ctx, key); err != nil {
			e.logger.Warn("failed to remove partial export", zap.String("key", key), zap.Error(err))
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
			continue
		}
		e.logger.Debug("partial export removed", zap.String("key", key))
	}
	return errors.Join(errs...)
}

// WriteManifest stores the YAML manifest of a run
func (e *Exporter) WriteManifest(ctx context.Context, summary appsales.RunSummary) (appsales.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return appsales.StoredFile{}, fmt.Errorf("export %s: %w", ManifestFileName, err)
	}
	data, err := NewManifest(summary).Encode()
	if err != nil {
		return appsales.StoredFile{}, err
	}
	obj, err := e.store.Put(ctx, e.key(ManifestFileName), data, yamlContentType)
	if err != nil {
		return appsales.StoredFile{}, fmt.Errorf("store %s: %w", ManifestFileName, err)
	}
	e.logger.Debug("manifest written", zap.String("key", obj.Key), zap.String("run_id", summary.RunID))
	return toStoredFile(obj), nil
}

func toStoredFile(obj storage.Object) appsales.StoredFile {
	return appsales.StoredFile{
		Key:         obj.Key,
		Location:    obj.Location,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	}
}
