// Package printing renders order confirmations to HTML and PDF.
//
// The HTML comes from an html/template document (embedded default, or a file
// given by path). PDF output is produced by a PDFRenderer:
//   - ChromedpRenderer drives headless Chrome over the DevTools protocol
//   - WkhtmltopdfRenderer shells out to the wkhtmltopdf binary
//
// Example usage:
//
//	renderer, err := NewPDFRenderer(&RendererConfig{Engine: EngineChromedp})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	printer, err := NewConfirmationPrinter(store, renderer, "")
//	files, err := printer.RenderConfirmation(ctx, view)
package printing
