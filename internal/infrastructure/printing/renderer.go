package printing

import (
	"context"
	"strings"
	"time"
)

// PaperSize is a named page format
type PaperSize string

const (
	PaperSizeLetter PaperSize = "LETTER"
	PaperSizeA4     PaperSize = "A4"
)

func (p PaperSize) IsValid() bool {
	return p == PaperSizeLetter || p == PaperSizeA4
}

// Dimensions in millimetres, portrait
func (p PaperSize) Dimensions() (width, height int) {
	if p == PaperSizeA4 {
		return 210, 297
	}
	return 216, 279
}

// Margins are in millimetres
type Margins struct {
	Top, Right, Bottom, Left int
}

// DefaultMargins returns 10mm on every side
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// RenderRequest is one HTML document to print. A zero Timeout means the
// renderer's default.
type RenderRequest struct {
	HTML      string
	PaperSize PaperSize
	Landscape bool
	Margins   Margins
	Title     string
	Timeout   time.Duration
}

// RenderResult is a printed document
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer turns HTML into PDF bytes
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Engine names the backend, e.g. "chromedp"
	Engine() string
	Close() error
}

// Render failure codes
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeBinaryNotFound   = "BINARY_NOT_FOUND"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// RenderError is a coded confirmation rendering failure. Cause may be nil.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RenderError) Unwrap() error { return e.Cause }

func validateRequest(req *RenderRequest) error {
	switch {
	case req == nil:
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	case strings.TrimSpace(req.HTML) == "":
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	case !req.PaperSize.IsValid():
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	return nil
}
