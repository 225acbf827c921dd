package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultWkhtmltopdfBinary = "wkhtmltopdf"
	defaultRenderTimeout     = 30 * time.Second
	// waitDelay bounds how long a killed process may keep its pipes open
	waitDelay = 2 * time.Second
)

// WkhtmltopdfConfig contains configuration for the wkhtmltopdf renderer
type WkhtmltopdfConfig struct {
	// BinaryPath is an absolute path or a name looked up in PATH
	BinaryPath     string
	DefaultTimeout time.Duration
	Logger         *zap.Logger
}

// WkhtmltopdfRenderer pipes HTML through the wkhtmltopdf command-line tool.
// The document is written to the process's stdin and read back from stdout,
// so nothing touches the filesystem.
type WkhtmltopdfRenderer struct {
	binary  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewWkhtmltopdfRenderer resolves the binary once. It fails with
// BINARY_NOT_FOUND when it cannot be found or is not executable.
func NewWkhtmltopdfRenderer(config *WkhtmltopdfConfig) (*WkhtmltopdfRenderer, error) {
	if config == nil {
		config = &WkhtmltopdfConfig{}
	}
	name := config.BinaryPath
	if name == "" {
		name = defaultWkhtmltopdfBinary
	}

	binary, err := lookupBinary(name)
	if err != nil {
		return nil, NewRenderError(ErrCodeBinaryNotFound, "wkhtmltopdf binary not found: "+name, err)
	}

	r := &WkhtmltopdfRenderer{
		binary:  binary,
		timeout: config.DefaultTimeout,
		logger:  config.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = defaultRenderTimeout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r, nil
}

func lookupBinary(name string) (string, error) {
	if !filepath.IsAbs(name) {
		return exec.LookPath(name)
	}
	info, err := os.Stat(name)
	if err != nil {
		return "", err
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%s is not an executable file", name)
	}
	return name, nil
}

// Engine returns "wkhtmltopdf"
func (r *WkhtmltopdfRenderer) Engine() string {
	return EngineWkhtmltopdf
}

// Render converts req.HTML to PDF
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
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
	args := wkhtmltopdfArgs(req)

	var pdf, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Stdin = strings.NewReader(req.HTML)
	cmd.Stdout = &pdf
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		detail := strings.TrimSpace(stderr.String())
		r.logger.Error("wkhtmltopdf failed", zap.Error(err), zap.String("stderr", detail))
		return nil, NewRenderError(ErrCodeRenderFailed, "wkhtmltopdf failed: "+detail, err)
	}

	if pdf.Len() == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	result := &RenderResult{
		PDFData:        pdf.Bytes(),
		PageCount:      estimatePageCount(pdf.Bytes()),
		RenderDuration: time.Since(started),
	}
	r.logger.Debug("PDF rendered",
		zap.String("engine", EngineWkhtmltopdf),
		zap.Int("bytes", len(result.PDFData)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

// wkhtmltopdfArgs builds the command line. The trailing "-" "-" selects
// stdin as input and stdout as output.
func wkhtmltopdfArgs(req *RenderRequest) []string {
	orientation := "Portrait"
	if req.Landscape {
		orientation = "Landscape"
	}

	args := []string{
		"--quiet",
		"--encoding", "UTF-8",
		"--page-size", pageSizeName(req.PaperSize),
		"--orientation", orientation,
		"--margin-top", mm(req.Margins.Top),
		"--margin-right", mm(req.Margins.Right),
		"--margin-bottom", mm(req.Margins.Bottom),
		"--margin-left", mm(req.Margins.Left),
		"--disable-javascript",
		"--disable-local-file-access",
	}
	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}
	return append(args, "-", "-")
}

func mm(v int) string {
	return fmt.Sprintf("%dmm", v)
}

func pageSizeName(p PaperSize) string {
	if p == PaperSizeA4 {
		return "A4"
	}
	return "Letter"
}

// Close is a no-op; every Render runs its own process
func (r *WkhtmltopdfRenderer) Close() error {
	return nil
}

// estimatePageCount counts page objects in the PDF body. The page tree root
// ("/Type /Pages") also matches the prefix and is subtracted.
func estimatePageCount(pdfData []byte) int {
	pages := bytes.Count(pdfData, []byte("/Type /Page")) - bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(pages, 1)
}

var _ PDFRenderer = (*WkhtmltopdfRenderer)(nil)
