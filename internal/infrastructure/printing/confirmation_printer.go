package printing

import (
	"context"
	"path"
	"time"

	appsales "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/sales"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// Default keys of the rendered confirmation
const (
	DefaultOutputDir     = "output"
	ConfirmationHTMLName = "order_confirmation.html"
	ConfirmationPDFName  = "order_confirmation.pdf"
)

var _ appsales.ConfirmationRenderer = (*ConfirmationPrinter)(nil)

// ConfirmationPrinter renders the confirmation HTML, converts it to PDF when a
// PDFRenderer is configured, and stores both documents
type ConfirmationPrinter struct {
	store     storage.ObjectStore
	template  *ConfirmationTemplate
	pdf       PDFRenderer
	outputDir string
	paperSize PaperSize
	timeout   time.Duration
	logger    *zap.Logger
}

// PrinterOption configures a ConfirmationPrinter
type PrinterOption func(*ConfirmationPrinter)

// WithOutputDir changes the key prefix of rendered documents
func WithOutputDir(dir string) PrinterOption {
	return func(p *ConfirmationPrinter) {
		p.outputDir = dir
	}
}

// WithPaperSize sets the PDF page format (default Letter)
func WithPaperSize(size PaperSize) PrinterOption {
	return func(p *ConfirmationPrinter) {
		p.paperSize = size
	}
}

// WithRenderTimeout bounds each PDF render
func WithRenderTimeout(d time.Duration) PrinterOption {
	return func(p *ConfirmationPrinter) {
		p.timeout = d
	}
}

// WithPrinterLogger sets the printer logger
func WithPrinterLogger(logger *zap.Logger) PrinterOption {
	return func(p *ConfirmationPrinter) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewConfirmationPrinter creates a printer. templatePath selects an HTML
// template file; empty uses the embedded one. A nil pdf renderer produces
// HTML only.
func NewConfirmationPrinter(store storage.ObjectStore, pdf PDFRenderer, templatePath string, opts ...PrinterOption) (*ConfirmationPrinter, error) {
	tmpl, err := NewConfirmationTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	p := &ConfirmationPrinter{
		store:     store,
		template:  tmpl,
		pdf:       pdf,
		outputDir: DefaultOutputDir,
		paperSize: PaperSizeLetter,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Engine names the PDF engine in use, or "none"
func (p *ConfirmationPrinter) Engine() string {
	if p.pdf == nil {
		return EngineNone
	}
	return p.pdf.Engine()
}

// Close releases the PDF engine
func (p *ConfirmationPrinter) Close() error {
	if p.pdf == nil {
		return nil
	}
	return p.pdf.Close()
}

func (p *ConfirmationPrinter) key(name string) string {
	if p.outputDir == "" {
		return name
	}
	return path.Join(p.outputDir, name)
}

// RenderConfirmation stores the HTML confirmation and then its PDF. Files
// stored before a failure are returned with the error.
func (p *ConfirmationPrinter) RenderConfirmation(ctx context.Context, view appsales.ConfirmationView) ([]appsales.StoredFile, error) {
	html, err := p.template.Render(view)
	if err != nil {
		return nil, err
	}

	files := make([]appsales.StoredFile, 0, 2)
	htmlObj, err := p.store.Put(ctx, p.key(ConfirmationHTMLName), []byte(html), "text/html; charset=utf-8")
	if err != nil {
		return files, NewRenderError(ErrCodeStorageFailed, "failed to store confirmation HTML", err)
	}
	files = append(files, storedFile(htmlObj))

	if p.pdf == nil {
		p.logger.Info("confirmation rendered", zap.String("order_id", view.OrderID), zap.String("html", htmlObj.Location))
		return files, nil
	}

	result, err := p.pdf.Render(ctx, &RenderRequest{
		HTML:      html,
		PaperSize: p.paperSize,
		Margins:   DefaultMargins(),
		Title:     "Order Confirmation " + view.OrderID,
		Timeout:   p.timeout,
	})
	if err != nil {
		return files, err
	}

	pdfObj, err := p.store.Put(ctx, p.key(ConfirmationPDFName), result.PDFData, "application/pdf")
	if err != nil {
		return files, NewRenderError(ErrCodeStorageFailed, "failed to store confirmation PDF", err)
	}
	files = append(files, storedFile(pdfObj))

	p.logger.Info("confirmation rendered",
		zap.String("order_id", view.OrderID),
		zap.String("engine", p.pdf.Engine()),
		zap.String("html", htmlObj.Location),
		zap.String("pdf", pdfObj.Location),
		zap.Int("pages", result.PageCount),
	)
	return files, nil
}

func storedFile(obj storage.Object) appsales.StoredFile {
	return appsales.StoredFile{
		Key:         obj.Key,
		Location:    obj.Location,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	}
}
