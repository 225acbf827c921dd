package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	appcatalog "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/catalog"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/sales"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request bounds one activation of the generator
type Request struct {
	ProductCount int `validate:"min=1,max=10"`
	OrderCount   int `validate:"min=1,max=50"`
}

// RunResult is everything one pipeline run produced
type RunResult struct {
	RunID       string
	Seed        uint64
	Names       *appcatalog.CollectResult
	Orders      []*sales.Order
	Invoices    []*sales.Invoice
	OrderRows   []sales.FlatRow
	InvoiceRows []sales.FlatRow
	Files       []StoredFile
	// Confirmation is the view rendered for the first order
	Confirmation *ConfirmationView
	// RenderErr is set when the confirmation could not be rendered. The
	// tables are exported regardless.
	RenderErr error
	Duration  time.Duration
}

// RunRecorder observes completed runs
type RunRecorder interface {
	ObserveRun(orders, invoices, rows int, renderFailed bool, elapsed time.Duration)
}

// Pipeline runs naming, synthesis, invoicing, flattening, export and rendering once per Run
type Pipeline struct {
	names       NameCollector
	synthesizer *Synthesizer
	deriver     *InvoiceDeriver
	exporter    TableExporter
	renderer    ConfirmationRenderer
	recorder    RunRecorder
	validate    *validator.Validate
	newRunID    func() string
	now         func() time.Time
	logger      *zap.Logger
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithRenderer enables confirmation rendering
func WithRenderer(r ConfirmationRenderer) PipelineOption {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithRunRecorder reports finished runs to r
func WithRunRecorder(r RunRecorder) PipelineOption {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithRunIDs overrides run id generation
func WithRunIDs(gen func() string) PipelineOption {
	return func(p *Pipeline) {
		p.newRunID = gen
	}
}

// WithPipelineClock overrides the clock stamped into run summaries
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a new Pipeline
func NewPipeline(
	names NameCollector,
	synthesizer *Synthesizer,
	deriver *InvoiceDeriver,
	exporter TableExporter,
	logger *zap.Logger,
	opts ...PipelineOption,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		names:       names,
		synthesizer: synthesizer,
		deriver:     deriver,
		exporter:    exporter,
		validate:    validator.New(),
		newRunID:    func() string { return uuid.New().String() },
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the whole flow once. Naming failures fall back silently and a
// render failure is reported in RunResult.RenderErr; every other failure
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, rng Random, req Request, progress appcatalog.ProgressFunc) (*RunResult, error) {
	if err := p.validate.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}

	started := p.now()
	result := &RunResult{RunID: p.newRunID()}
	if seeded, ok := rng.(interface{ Seed() uint64 }); ok {
		result.Seed = seeded.Seed()
	}
	log := p.logger.With(zap.String("run_id", result.RunID))

	ctx, span := telemetry.StartSpan(ctx, "pipeline.run", telemetry.KV(
		telemetry.AttrRunID, result.RunID,
		telemetry.AttrSeed, result.Seed,
		telemetry.AttrProductCount, req.ProductCount,
		telemetry.AttrOrderCount, req.OrderCount,
	)...)
	defer span.End()

	if err := p.generate(ctx, rng, req, result, progress); err != nil {
		telemetry.RecordError(span, err)
		log.Error("generation failed", zap.Error(err))
		return nil, err
	}

	if err := p.export(ctx, req, result, started); err != nil {
		telemetry.RecordError(span, err)
		log.Error("export failed", zap.Error(err))
		return nil, err
	}

	p.render(ctx, rng, result, log)

	result.Duration = p.now().Sub(started)
	if p.recorder != nil {
		p.recorder.ObserveRun(len(result.Orders), len(result.Invoices), len(result.OrderRows)+len(result.InvoiceRows), result.RenderErr != nil, result.Duration)
	}
	telemetry.SetOK(span)
	log.Info("run complete",
		zap.Int("products", result.Names.Distinct()),
		zap.Int("orders", len(result.Orders)),
		zap.Int("invoices", len(result.Invoices)),
		zap.Int("files", len(result.Files)),
		zap.Bool("render_failed", result.RenderErr != nil),
		zap.Duration("elapsed", result.Duration))
	return result, nil
}

func (p *Pipeline) generate(ctx context.Context, rng Random, req Request, result *RunResult, progress appcatalog.ProgressFunc) error {
	namingCtx, span := telemetry.StartSpan(ctx, "pipeline.collect_names")
	names, err := p.names.Collect(namingCtx, rng, req.ProductCount, progress)
	if err != nil {
		telemetry.RecordError(span, err)
		span.End()
		return fmt.Errorf("collect product names: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.AttrProductNames, names.Distinct(), telemetry.AttrFallbacks, names.Fallbacks)
	span.End()
	result.Names = names

	synthCtx, span := telemetry.StartSpan(ctx, "pipeline.synthesize")
	orders, err := p.synthesizer.Synthesize(synthCtx, rng, req.OrderCount, names.Names)
	if err != nil {
		telemetry.RecordError(span, err)
		span.End()
		return fmt.Errorf("synthesize orders: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.AttrOrders, len(orders))
	span.End()
	result.Orders = orders

	_, span = telemetry.StartSpan(ctx, "pipeline.derive_invoices")
	invoices, err := p.deriver.Derive(rng, orders)
	if err != nil {
		telemetry.RecordError(span, err)
		span.End()
		return fmt.Errorf("derive invoices: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.AttrInvoices, len(invoices))
	span.End()
	result.Invoices = invoices

	result.OrderRows = sales.Flatten(orders)
	result.InvoiceRows = sales.Flatten(invoices)
	return ctx.Err()
}

func (p *Pipeline) export(ctx context.Context, req Request, result *RunResult, started time.Time) error {
	ctx, span := telemetry.StartSpan(ctx, "pipeline.export")
	defer span.End()

	files, err := p.exporter.ExportTables(ctx, result.OrderRows, result.InvoiceRows)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("export tables: %w", err)
	}

	manifest, err := p.exporter.WriteManifest(ctx, RunSummary{
		RunID:             result.RunID,
		Seed:              result.Seed,
		GeneratedAt:       started,
		ProductsRequested: req.ProductCount,
		ProductNames:      result.Names.Names,
		NamingFallbacks:   result.Names.Fallbacks,
		OrdersRequested:   req.OrderCount,
		Orders:            len(result.Orders),
		Invoices:          len(result.Invoices),
		OrderRows:         len(result.OrderRows),
		InvoiceRows:       len(result.InvoiceRows),
		Files:             files,
	})
	if err != nil {
		err = fmt.Errorf("write manifest: %w", err)
		if derr := p.exporter.Discard(ctx); derr != nil {
			err = errors.Join(err, derr)
		}
		telemetry.RecordError(span, err)
		return err
	}

	result.Files = append(files, manifest)
	telemetry.SetAttributes(span,
		telemetry.AttrStoredFiles, len(result.Files),
		telemetry.AttrRows, len(result.OrderRows)+len(result.InvoiceRows))
	return nil
}

func (p *Pipeline) render(ctx context.Context, rng Random, result *RunResult, log *zap.Logger) {
	view := BuildConfirmation(rng, result.Orders[0])
	result.Confirmation = &view
	if p.renderer == nil {
		return
	}

	ctx, span := telemetry.StartSpan(ctx, "pipeline.render_confirmation",
		telemetry.KV(telemetry.AttrRenderer, p.renderer.Engine())...)
	defer span.End()

	files, err := p.renderer.RenderConfirmation(ctx, view)
	result.Files = append(result.Files, files...)
	if err != nil {
		telemetry.RecordError(span, err)
		result.RenderErr = err
		log.Warn("order confirmation render failed, tables were still exported",
			zap.String("order_id", view.OrderID),
			zap.Error(err))
	}
}

func invalidRequest(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	e := verrs[0]
	msg := fmt.Sprintf("%s must be between %s", e.Field(), requestBounds[e.Field()])
	return shared.NewDomainError("INVALID_REQUEST", msg)
}

var requestBounds = map[string]string{
	"ProductCount": "1 and 10",
	"OrderCount":   "1 and 50",
}
