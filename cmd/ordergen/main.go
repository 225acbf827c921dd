// Package main provides the CLI entry point of the synthetic order generator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcatalog "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/catalog"
	appsales "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/sales"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/config"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/export"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/generator"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/logger"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/metrics"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/naming"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/printing"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/storage"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// options are the command line flags. Zero values leave the configured value in place.
type options struct {
	configPath  string
	products    int
	orders      int
	seed        uint64
	seedSet     bool
	outDir      string
	namingURL   string
	renderer    string
	metricsAddr string
	noPreview   bool
	showVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("ordergen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to the TOML configuration file")
	fs.IntVar(&opts.products, "products", 0, "Number of product naming requests (1-10, default 5)")
	fs.IntVar(&opts.orders, "orders", 0, "Number of orders to generate (1-50, default 20)")
	fs.Uint64Var(&opts.seed, "seed", 0, "Random seed (default 42, 0 picks a random seed)")
	fs.StringVar(&opts.outDir, "out", "", "Output root for data/ and output/ (local storage)")
	fs.StringVar(&opts.namingURL, "naming-url", "", "Base URL of the product naming service")
	fs.StringVar(&opts.renderer, "renderer", "", "PDF engine: chromedp, wkhtmltopdf or none")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9102)")
	fs.BoolVar(&opts.noPreview, "no-preview", false, "Do not print table previews")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Synthetic order generator\n\nUSAGE:\n    ordergen [options]\n\nOPTIONS:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seedSet = true
		}
	})
	return opts, nil
}

// applyOverrides copies explicitly set flags onto cfg and validates the result
func applyOverrides(cfg *config.Config, opts *options) error {
	if opts.products != 0 {
		cfg.Generator.Products = opts.products
	}
	if opts.orders != 0 {
		cfg.Generator.Orders = opts.orders
	}
	if opts.seedSet {
		cfg.Generator.Seed = opts.seed
	}
	if opts.outDir != "" {
		cfg.Export.OutDir = opts.outDir
	}
	if opts.namingURL != "" {
		cfg.Naming.BaseURL = opts.namingURL
	}
	if opts.renderer != "" {
		cfg.Printing.Engine = opts.renderer
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if opts.noPreview {
		cfg.Export.Preview = false
	}
	return cfg.Validate()
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "ordergen version %s\n", version)
	fmt.Fprintf(w, "  Build time: %s\n", buildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", gitCommit)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if opts.showVersion {
		printVersion(stdout)
		return exitOK
	}

	cfg, err := config.LoadFrom(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return exitError
	}
	if err := applyOverrides(cfg, opts); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error initializing logger: %v\n", err)
		return exitError
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := generate(ctx, cfg, log, stdout, stderr); err != nil {
		log.Error("order generation failed", zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

func generate(ctx context.Context, cfg *config.Config, log *zap.Logger, stdout, stderr io.Writer) error {
	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry.TracerConfig(version), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	var (
		nameOpts     []appcatalog.Option
		pipelineOpts []appsales.PipelineOption
	)
	if cfg.Metrics.Enabled {
		exporter := metrics.NewExporter(cfg.Metrics.Path, true)
		generatorMetrics := metrics.NewGeneratorMetrics(exporter.Registry())
		nameOpts = append(nameOpts, appcatalog.WithRecorder(generatorMetrics))
		pipelineOpts = append(pipelineOpts, appsales.WithRunRecorder(generatorMetrics))

		if cfg.Metrics.Addr != "" {
			if err := exporter.Start(cfg.Metrics.Addr); err != nil {
				return fmt.Errorf("start metrics endpoint: %w", err)
			}
			log.Info("metrics endpoint listening", zap.String("addr", exporter.Addr()), zap.String("path", exporter.Path()))
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = exporter.Stop(stopCtx)
			}()
		}
	}

	store, err := storage.New(ctx, cfg.StoreConfig(), log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	namer, err := naming.NewClient(cfg.Naming.NamingClientConfig(), log)
	if err != nil {
		return err
	}

	printer, err := newPrinter(cfg, store, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = printer.Close()
	}()
	pipelineOpts = append(pipelineOpts, appsales.WithRenderer(printer))

	pipeline := appsales.NewPipeline(
		appcatalog.NewProductNameSource(namer, log, nameOpts...),
		appsales.NewSynthesizer(
			appsales.WithItemRange(cfg.Generator.MinItems, cfg.Generator.MaxItems),
			appsales.WithIdentifierDraws(cfg.Generator.IdentifierDraws),
			appsales.WithLogger(log),
		),
		appsales.NewInvoiceDeriver(),
		export.NewExporter(store, export.WithDataDir(cfg.Export.DataDir), export.WithLogger(log)),
		log,
		pipelineOpts...,
	)

	rng := generator.NewSource(cfg.Generator.Seed)
	fmt.Fprintln(stderr, "Generating product names...")
	result, err := pipeline.Run(ctx, rng, appsales.Request{
		ProductCount: cfg.Generator.Products,
		OrderCount:   cfg.Generator.Orders,
	}, progressPrinter(stderr))
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "Generated %d products in %.2f seconds\n", result.Names.Distinct(), result.Names.Duration.Seconds())

	if cfg.Export.Preview {
		if err := printPreview(stdout, result, cfg.Export.PreviewRows); err != nil {
			return err
		}
	}
	return report(ctx, stderr, store, result, cfg.Storage.PresignExpiration)
}

// newPrinter builds the confirmation printer. The "none" engine, or a PDF
// engine that cannot start, yields HTML only.
func newPrinter(cfg *config.Config, store storage.ObjectStore, log *zap.Logger) (*printing.ConfirmationPrinter, error) {
	pdf, err := printing.NewPDFRenderer(cfg.Printing.RendererConfig(log))
	if err != nil {
		log.Warn("PDF engine unavailable, confirmation will be HTML only",
			zap.String("engine", cfg.Printing.Engine),
			zap.Error(err))
		pdf = nil
	}

	printer, err := printing.NewConfirmationPrinter(store, pdf, cfg.Printing.TemplatePath,
		printing.WithOutputDir(cfg.Printing.OutputDir),
		printing.WithPaperSize(printing.PaperSize(cfg.Printing.PaperSize)),
		printing.WithRenderTimeout(cfg.Printing.Timeout),
		printing.WithPrinterLogger(log),
	)
	if err != nil {
		if pdf != nil {
			_ = pdf.Close()
		}
		return nil, fmt.Errorf("load confirmation template: %w", err)
	}
	return printer, nil
}

func progressPrinter(w io.Writer) appcatalog.ProgressFunc {
	return func(done, total int) {
		fmt.Fprintf(w, "\r  %d/%d", done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

func printPreview(w io.Writer, result *appsales.RunResult, limit int) error {
	if err := export.WritePreview(w, "Sample Orders Data", result.OrderRows, limit); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return export.WritePreview(w, "Sample Invoices Data", result.InvoiceRows, limit)
}

// report lists the stored files and, when a PDF was produced, its download link
func report(ctx context.Context, w io.Writer, store storage.ObjectStore, result *appsales.RunResult, expires time.Duration) error {
	for _, f := range result.Files {
		fmt.Fprintf(w, "Wrote %s (%d bytes)\n", f.Location, f.Size)
	}

	if result.RenderErr != nil {
		fmt.Fprintf(w, "Failed to generate PDF: %v\n", result.RenderErr)
		return nil
	}
	for _, f := range result.Files {
		if f.ContentType != "application/pdf" {
			continue
		}
		url, err := store.DownloadURL(ctx, f.Key, expires)
		if err != nil {
			return fmt.Errorf("download link for %s: %w", f.Key, err)
		}
		fmt.Fprintf(w, "Download order confirmation PDF: %s\n", url)
	}
	return nil
}
