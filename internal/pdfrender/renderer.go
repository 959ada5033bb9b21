package pdfrender

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/go-pdf/fpdf"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html"
)

// One rendering strategy: markup in, PDF bytes out, or fail so the next
// engine gets a try.
type Engine interface {
	Name() string
	Render(html string) ([]byte, error)
}

// Primary engine. NewPDFGenerator fails when the wkhtmltopdf binary is not
// installed, which is the common trigger for falling through.
type WKHTMLEngine struct{}

func (WKHTMLEngine) Name() string { return "wkhtmltopdf" }

func (WKHTMLEngine) Render(html string) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, err
	}

	pdfg.AddPage(wkhtmltopdf.NewPageReader(strings.NewReader(html)))
	if err := pdfg.Create(); err != nil {
		return nil, err
	}

	return pdfg.Bytes(), nil
}

// Secondary engine, pure Go. Understands only basic markup but always
// produces a printable document.
type FPDFEngine struct{}

func (FPDFEngine) Name() string { return "fpdf" }

func (FPDFEngine) Render(html string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	writer := pdf.HTMLBasicNew()
	writer.Write(5, html)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Pipeline tries engines in rank order and degrades to the raw markup as
// text/html when every engine fails. It always yields an artifact.
type Pipeline struct {
	engines []Engine
	logger  *slog.Logger
}

func NewPipeline(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		engines: []Engine{WKHTMLEngine{}, FPDFEngine{}},
		logger:  logger,
	}
}

// NewPipelineWithEngines is used by tests to rank custom engines.
func NewPipelineWithEngines(logger *slog.Logger, engines ...Engine) *Pipeline {
	return &Pipeline{engines: engines, logger: logger}
}

func (p *Pipeline) Render(html string) ([]byte, string) {
	for _, e := range p.engines {
		data, err := e.Render(html)
		if err == nil {
			return data, ContentTypePDF
		}
		p.logger.Warn("pdf engine failed, falling through", "engine", e.Name(), "err", err)
	}

	return []byte(html), ContentTypeHTML
}
