package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appcatalog "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/catalog"
	appsales "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/sales"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/catalog"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/sales"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockNamer struct {
	mock.Mock
}

func (m *MockNamer) Name(ctx context.Context, category catalog.Category) (catalog.Product, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(catalog.Product), args.Error(1)
}

type MockExporter struct {
	mock.Mock
	orders   []sales.FlatRow
	invoices []sales.FlatRow
	summary  appsales.RunSummary
}

func (m *MockExporter) ExportTables(ctx context.Context, orders, invoices []sales.FlatRow) ([]appsales.StoredFile, error) {
	m.orders, m.invoices = orders, invoices
	args := m.Called(ctx, len(orders), len(invoices))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appsales.StoredFile), args.Error(1)
}

func (m *MockExporter) WriteManifest(ctx context.Context, summary appsales.RunSummary) (appsales.StoredFile, error) {
	m.summary = summary
	args := m.Called(ctx, summary.RunID)
	return args.Get(0).(appsales.StoredFile), args.Error(1)
}

func (m *MockExporter) Discard(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderConfirmation(ctx context.Context, view appsales.ConfirmationView) ([]appsales.StoredFile, error) {
	args := m.Called(ctx, view.OrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appsales.StoredFile), args.Error(1)
}

func (m *MockRenderer) Engine() string { return "mock" }

type runObservation struct {
	orders, invoices, rows int
	renderFailed           bool
}

type fakeRunRecorder struct {
	runs []runObservation
}

func (r *fakeRunRecorder) ObserveRun(orders, invoices, rows int, renderFailed bool, _ time.Duration) {
	r.runs = append(r.runs, runObservation{orders, invoices, rows, renderFailed})
}

var (
	ordersCSV   = appsales.StoredFile{Key: "data/orders.csv", ContentType: "text/csv"}
	invoicesCSV = appsales.StoredFile{Key: "data/invoices.csv", ContentType: "text/csv"}
	manifest    = appsales.StoredFile{Key: "data/manifest.yaml", ContentType: "application/yaml"}
	htmlFile    = appsales.StoredFile{Key: "output/order_confirmation.html", ContentType: "text/html"}
	pdfFile     = appsales.StoredFile{Key: "output/order_confirmation.pdf", ContentType: "application/pdf"}
)

type pipelineFixture struct {
	namer    *MockNamer
	exporter *MockExporter
	renderer *MockRenderer
	recorder *fakeRunRecorder
	pipeline *appsales.Pipeline
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		namer:    new(MockNamer),
		exporter: new(MockExporter),
		renderer: new(MockRenderer),
		recorder: &fakeRunRecorder{},
	}
	logger := zaptest.NewLogger(t)
	f.pipeline = appsales.NewPipeline(
		appcatalog.NewProductNameSource(f.namer, logger),
		newSynthesizer(),
		appsales.NewInvoiceDeriver(),
		f.exporter,
		logger,
		appsales.WithRenderer(f.renderer),
		appsales.WithRunRecorder(f.recorder),
		appsales.WithRunIDs(func() string { return "run-1" }),
		appsales.WithPipelineClock(fixedClock),
	)
	return f
}

// =============================================================================
// Tests
// =============================================================================

func TestPipeline_Run(t *testing.T) {
	f := newPipelineFixture(t)
	f.namer.On("Name", mock.Anything, mock.Anything).Return(catalog.Product{Name: "Bath Towel", Description: "Soft"}, nil).Once()
	f.namer.On("Name", mock.Anything, mock.Anything).Return(catalog.Product{Name: "Desk Lamp", Description: "Bright"}, nil)
	f.exporter.On("ExportTables", mock.Anything, mock.Anything, mock.Anything).Return([]appsales.StoredFile{ordersCSV, invoicesCSV}, nil)
	f.exporter.On("WriteManifest", mock.Anything, "run-1").Return(manifest, nil)
	f.renderer.On("RenderConfirmation", mock.Anything, mock.Anything).Return([]appsales.StoredFile{htmlFile, pdfFile}, nil)

	var ticks []int
	result, err := f.pipeline.Run(context.Background(), generator.NewSource(42), appsales.Request{ProductCount: 3, OrderCount: 10},
		func(done, _ int) { ticks = append(ticks, done) })

	require.NoError(t, err)
	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, uint64(42), result.Seed)
	assert.Equal(t, []string{"Bath Towel", "Desk Lamp"}, result.Names.Names)
	assert.Equal(t, []int{1, 2, 3}, ticks)
	assert.Len(t, result.Orders, 10)
	assert.Len(t, result.Invoices, 10)
	assert.Len(t, result.InvoiceRows, len(result.OrderRows))
	assert.Equal(t, []appsales.StoredFile{ordersCSV, invoicesCSV, manifest, htmlFile, pdfFile}, result.Files)
	assert.NoError(t, result.RenderErr)

	require.NotNil(t, result.Confirmation)
	assert.Equal(t, result.Orders[0].ID, result.Confirmation.OrderID)

	itemTotal := 0
	for _, o := range result.Orders {
		itemTotal += len(o.Items)
	}
	assert.Len(t, f.exporter.orders, itemTotal)
	assert.Equal(t, 10, f.exporter.summary.Orders)
	assert.Equal(t, 3, f.exporter.summary.ProductsRequested)
	assert.Equal(t, fixedNow, f.exporter.summary.GeneratedAt)
	assert.Equal(t, []appsales.StoredFile{ordersCSV, invoicesCSV}, f.exporter.summary.Files)

	require.Len(t, f.recorder.runs, 1)
	assert.Equal(t, runObservation{10, 10, 2 * itemTotal, false}, f.recorder.runs[0])
	f.renderer.AssertCalled(t, "RenderConfirmation", mock.Anything, result.Orders[0].ID)
}

func TestPipeline_NamingOutageStillProducesOrders(t *testing.T) {
	f := newPipelineFixture(t)
	f.namer.On("Name", mock.Anything, mock.Anything).
		Return(catalog.Product{}, &catalog.NamingError{Kind: catalog.NamingErrorStatus, StatusCode: 500, Err: errors.New("boom")})
	f.exporter.On("ExportTables", mock.Anything, mock.Anything, mock.Anything).Return([]appsales.StoredFile{ordersCSV, invoicesCSV}, nil)
	f.exporter.On("WriteManifest", mock.Anything, mock.Anything).Return(manifest, nil)
	f.renderer.On("RenderConfirmation", mock.Anything, mock.Anything).Return([]appsales.StoredFile{htmlFile}, nil)

	result, err := f.pipeline.Run(context.Background(), generator.NewSource(1), appsales.Request{ProductCount: 4, OrderCount: 2}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"Default Product"}, result.Names.Names)
	assert.Equal(t, 4, result.Names.Fallbacks)
	for _, row := range result.OrderRows {
		assert.Equal(t, "Default Product", row.ProductName)
	}
	assert.Equal(t, 4, f.exporter.summary.NamingFallbacks)
}

func TestPipeline_RenderFailureIsNotFatal(t *testing.T) {
	f := newPipelineFixture(t)
	renderErr := errors.New("wkhtmltopdf: exit status 1")
	f.namer.On("Name", mock.Anything, mock.Anything).Return(catalog.Product{Name: "Bath Towel"}, nil)
	f.exporter.On("ExportTables", mock.Anything, mock.Anything, mock.Anything).Return([]appsales.StoredFile{ordersCSV, invoicesCSV}, nil)
	f.exporter.On("WriteManifest", mock.Anything, mock.Anything).Return(manifest, nil)
	f.renderer.On("RenderConfirmation", mock.Anything, mock.Anything).Return([]appsales.StoredFile{htmlFile}, renderErr)

	result, err := f.pipeline.Run(context.Background(), generator.NewSource(1), appsales.Request{ProductCount: 1, OrderCount: 1}, nil)

	require.NoError(t, err)
	assert.ErrorIs(t, result.RenderErr, renderErr)
	assert.Equal(t, []appsales.StoredFile{ordersCSV, invoicesCSV, manifest, htmlFile}, result.Files)
	require.Len(t, f.recorder.runs, 1)
	assert.True(t, f.recorder.runs[0].renderFailed)
}

func TestPipeline_CancelledManifestDiscardsTables(t *testing.T) {
	f := newPipelineFixture(t)
	f.namer.On("Name", mock.Anything, mock.Anything).Return(catalog.Product{Name: "Bath Towel"}, nil)
	f.exporter.On("ExportTables", mock.Anything, mock.Anything, mock.Anything).Return([]appsales.StoredFile{ordersCSV, invoicesCSV}, nil)
	f.exporter.On("WriteManifest", mock.Anything, mock.Anything).Return(appsales.StoredFile{}, context.Canceled)
	f.exporter.On("Discard", mock.Anything).Return(nil).Once()

	result, err := f.pipeline.Run(context.Background(), generator.NewSource(1), appsales.Request{ProductCount: 1, OrderCount: 1}, nil)

	assert.Nil(t, result)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "write manifest")
	f.exporter.AssertExpectations(t)
	f.renderer.AssertNotCalled(t, "RenderConfirmation", mock.Anything, mock.Anything)
}

func TestPipeline_ExportFailureIsFatal(t *testing.T) {
	f := newPipelineFixture(t)
	f.namer.On("Name", mock.Anything, mock.Anything).Return(catalog.Product{Name: "Bath Towel"}, nil)
	f.exporter.On("ExportTables", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("permission denied"))

	result, err := f.pipeline.Run(context.Background(), generator.NewSource(1), appsales.Request{ProductCount: 1, OrderCount: 1}, nil)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export tables")
	f.renderer.AssertNotCalled(t, "RenderConfirmation", mock.Anything, mock.Anything)
	assert.Empty(t, f.recorder.runs)
}

func TestPipeline_WithoutRenderer(t *testing.T) {
	namer := new(MockNamer)
	namer.On("Name", mock.Anything, mock.Anything).Return(catalog.Product{Name: "Bath Towel"}, nil)
	exporter := new(MockExporter)
	exporter.On("ExportTables", mock.Anything, mock.Anything, mock.Anything).Return([]appsales.StoredFile{ordersCSV, invoicesCSV}, nil)
	exporter.On("WriteManifest", mock.Anything, mock.Anything).Return(manifest, nil)

	p := appsales.NewPipeline(appcatalog.NewProductNameSource(namer, nil), newSynthesizer(), appsales.NewInvoiceDeriver(), exporter, nil)
	result, err := p.Run(context.Background(), generator.NewSource(2), appsales.Request{ProductCount: 1, OrderCount: 3}, nil)

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.NotNil(t, result.Confirmation)
	assert.Len(t, result.Files, 3)
}

func TestPipeline_RequestBounds(t *testing.T) {
	tests := []struct {
		name string
		req  appsales.Request
		msg  string
	}{
		{"no products", appsales.Request{ProductCount: 0, OrderCount: 5}, "ProductCount must be between 1 and 10"},
		{"too many products", appsales.Request{ProductCount: 11, OrderCount: 5}, "ProductCount must be between 1 and 10"},
		{"no orders", appsales.Request{ProductCount: 5, OrderCount: 0}, "OrderCount must be between 1 and 50"},
		{"too many orders", appsales.Request{ProductCount: 5, OrderCount: 51}, "OrderCount must be between 1 and 50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t)
			_, err := f.pipeline.Run(context.Background(), generator.NewSource(1), tt.req, nil)
			require.Error(t, err)
			assert.Equal(t, "INVALID_REQUEST", shared.CodeOf(err))
			assert.EqualError(t, err, tt.msg)
			f.namer.AssertNotCalled(t, "Name", mock.Anything, mock.Anything)
		})
	}
}

func TestPipeline_CancelledDuringNaming(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newPipelineFixture(t)
	f.namer.On("Name", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cancel() }).
		Return(catalog.Product{}, &catalog.NamingError{Kind: catalog.NamingErrorNetwork, Err: context.Canceled})

	result, err := f.pipeline.Run(ctx, generator.NewSource(1), appsales.Request{ProductCount: 5, OrderCount: 5}, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	f.exporter.AssertNotCalled(t, "ExportTables", mock.Anything, mock.Anything, mock.Anything)
}
