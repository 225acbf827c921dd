package printing

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PDF engines
const (
	EngineChromedp    = "chromedp"
	EngineWkhtmltopdf = "wkhtmltopdf"
	EngineNone        = "none"
)

// RendererConfig selects and configures a PDFRenderer
type RendererConfig struct {
	Engine string
	// Timeout bounds one PDF render
	Timeout time.Duration
	// ChromeURL connects to a running Chrome instead of launching one
	ChromeURL       string
	ChromeNoSandbox bool
	// WkhtmltopdfPath overrides the wkhtmltopdf binary lookup
	WkhtmltopdfPath string
	Logger          *zap.Logger
}

// NewPDFRenderer creates the renderer named by cfg.Engine. EngineNone yields a
// nil renderer, which disables PDF output.
func NewPDFRenderer(cfg *RendererConfig) (PDFRenderer, error) {
	if cfg == nil {
		cfg = &RendererConfig{}
	}
	switch cfg.Engine {
	case "", EngineChromedp:
		return NewChromedpRenderer(&ChromedpConfig{
			DefaultTimeout: cfg.Timeout,
			RemoteURL:      cfg.ChromeURL,
			NoSandbox:      cfg.ChromeNoSandbox,
			Logger:         cfg.Logger,
		})
	case EngineWkhtmltopdf:
		r, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath:     cfg.WkhtmltopdfPath,
			DefaultTimeout: cfg.Timeout,
			Logger:         cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case EngineNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown PDF engine %q", cfg.Engine)
	}
}
