package printing

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeWkhtmltopdf writes a shell script standing in for the wkhtmltopdf binary
func fakeWkhtmltopdf(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "wkhtmltopdf")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestNewWkhtmltopdfRenderer_BinaryNotFound(t *testing.T) {
	_, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
		BinaryPath: filepath.Join(t.TempDir(), "missing-wkhtmltopdf"),
	})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeBinaryNotFound, renderErr.Code)
}

func TestNewWkhtmltopdfRenderer_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wkhtmltopdf")
	require.NoError(t, os.WriteFile(path, []byte("not a program"), 0o644))

	_, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{BinaryPath: path})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeBinaryNotFound, renderErr.Code)
}

func TestWkhtmltopdfArgs(t *testing.T) {
	t.Run("a4 portrait", func(t *testing.T) {
		args := wkhtmltopdfArgs(&RenderRequest{
			HTML:      "<p>x</p>",
			PaperSize: PaperSizeA4,
			Margins:   DefaultMargins(),
			Title:     "Order Confirmation",
		})

		assert.Equal(t, "--quiet", args[0])
		assert.Contains(t, args, "A4")
		assert.Contains(t, args, "Portrait")
		assert.Contains(t, args, "10mm")
		assert.Contains(t, args, "--disable-javascript")
		assert.Contains(t, args, "Order Confirmation")
		assert.Equal(t, []string{"-", "-"}, args[len(args)-2:])
	})

	t.Run("letter landscape without title", func(t *testing.T) {
		args := wkhtmltopdfArgs(&RenderRequest{HTML: "<p>x</p>", PaperSize: PaperSizeLetter, Landscape: true})

		assert.Contains(t, args, "Letter")
		assert.Contains(t, args, "Landscape")
		assert.NotContains(t, args, "--title")
		assert.Contains(t, args, "0mm")
	})
}

func TestWkhtmltopdfRenderer_Render(t *testing.T) {
	bin := fakeWkhtmltopdf(t, `cat >/dev/null; printf '%%PDF-1.4 /Type /Pages /Type /Page'`)

	r, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{BinaryPath: bin, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	assert.Equal(t, EngineWkhtmltopdf, r.Engine())

	result, err := r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>", PaperSize: PaperSizeLetter})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 /Type /Pages /Type /Page", string(result.PDFData))
	assert.Equal(t, 1, result.PageCount)
	assert.NoError(t, r.Close())
}

func TestWkhtmltopdfRenderer_ReceivesHTMLOnStdin(t *testing.T) {
	// Echoing stdin back makes the document itself the "PDF".
	bin := fakeWkhtmltopdf(t, `cat`)

	r, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{BinaryPath: bin})
	require.NoError(t, err)

	result, err := r.Render(context.Background(), &RenderRequest{HTML: "<h1>Order 112-0000001</h1>", PaperSize: PaperSizeA4})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Order 112-0000001</h1>", string(result.PDFData))
}

func TestWkhtmltopdfRenderer_RenderFailure(t *testing.T) {
	bin := fakeWkhtmltopdf(t, `echo "Exit with code 1 due to network error" >&2; exit 1`)

	r, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{BinaryPath: bin})
	require.NoError(t, err)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>", PaperSize: PaperSizeLetter})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderFailed, renderErr.Code)
	assert.Contains(t, renderErr.Message, "network error")
}

func TestWkhtmltopdfRenderer_Timeout(t *testing.T) {
	bin := fakeWkhtmltopdf(t, `exec sleep 5`)

	r, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{BinaryPath: bin})
	require.NoError(t, err)

	_, err = r.Render(context.Background(), &RenderRequest{
		HTML:      "<p>x</p>",
		PaperSize: PaperSizeLetter,
		Timeout:   100 * time.Millisecond,
	})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
}

func TestWkhtmltopdfRenderer_EmptyOutput(t *testing.T) {
	bin := fakeWkhtmltopdf(t, `exit 0`)

	r, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{BinaryPath: bin})
	require.NoError(t, err)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>", PaperSize: PaperSizeLetter})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "generated PDF is empty", renderErr.Message)
}
