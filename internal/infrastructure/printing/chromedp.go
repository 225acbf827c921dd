package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0
	mmPerInch            = 25.4
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// RemoteURL points at a running Chrome's DevTools endpoint, e.g.
	// ws://localhost:9222. Empty launches a local headless browser.
	RemoteURL string
	// NoSandbox is needed when Chrome runs as root inside a container
	NoSandbox bool
	Scale     float64
	Logger    *zap.Logger
}

// ChromedpRenderer prints HTML through headless Chrome. One browser (local or
// remote) is shared; each Render opens and closes its own tab.
type ChromedpRenderer struct {
	timeout time.Duration
	scale   float64
	logger  *zap.Logger

	browser      context.Context
	closeBrowser context.CancelFunc
}

// NewChromedpRenderer prepares the allocator. Chrome itself is not started
// until the first Render.
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}

	r := &ChromedpRenderer{
		timeout: config.DefaultTimeout,
		scale:   config.Scale,
		logger:  config.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = defaultChromeTimeout
	}
	if r.scale <= 0 {
		r.scale = defaultScale
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.browser, r.closeBrowser = newAllocator(config.RemoteURL, config.NoSandbox)
	return r, nil
}

func newAllocator(remoteURL string, noSandbox bool) (context.Context, context.CancelFunc) {
	if remoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), remoteURL)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if noSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

// Engine returns "chromedp"
func (r *ChromedpRenderer) Engine() string {
	return EngineChromedp
}

// Render loads req.HTML into a blank tab and prints it
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	pdf, err := r.print(ctx, wrapDocument(req), r.pdfParams(req))
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp print failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	result := &RenderResult{
		PDFData:        pdf,
		PageCount:      estimatePageCount(pdf),
		RenderDuration: time.Since(started),
	}
	r.logger.Debug("PDF rendered",
		zap.String("engine", EngineChromedp),
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

// print runs one tab. The tab is cancelled with ctx so a deadline also stops
// the browser side.
func (r *ChromedpRenderer) print(ctx context.Context, document string, params *page.PrintToPDFParams) ([]byte, error) {
	tab, closeTab := chromedp.NewContext(r.browser,
		chromedp.WithLogf(r.logger.Sugar().Debugf),
	)
	defer closeTab()
	defer context.AfterFunc(ctx, closeTab)()

	var pdf []byte
	err := chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			pdf = data
			return err
		}),
	)
	return pdf, err
}

// pdfParams maps the request onto Chrome's print settings, which are in inches
func (r *ChromedpRenderer) pdfParams(req *RenderRequest) *page.PrintToPDFParams {
	width, height := req.PaperSize.Dimensions()
	m := req.Margins
	return page.PrintToPDF().
		WithPaperWidth(inches(width)).
		WithPaperHeight(inches(height)).
		WithMarginTop(inches(m.Top)).
		WithMarginRight(inches(m.Right)).
		WithMarginBottom(inches(m.Bottom)).
		WithMarginLeft(inches(m.Left)).
		WithLandscape(req.Landscape).
		WithPrintBackground(true).
		WithScale(r.scale)
}

func inches(mm int) float64 {
	return float64(mm) / mmPerInch
}

// wrapDocument returns full documents unchanged and wraps fragments in a
// minimal UTF-8 page
func wrapDocument(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(req.Title))
	}
	b.WriteString("</head><body>")
	b.WriteString(req.HTML)
	b.WriteString("</body></html>")
	return b.String()
}

// Close shuts down the browser, or disconnects from a remote one
func (r *ChromedpRenderer) Close() error {
	if r.closeBrowser != nil {
		r.closeBrowser()
	}
	return nil
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
