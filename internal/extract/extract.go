package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"glrfill/internal/docx"
	"glrfill/internal/domain"
)

// PageSeparator joins page texts in the report text blob.
const PageSeparator = "\n\n"

// maxParallelReports bounds how many PDFs are parsed at once.
const maxParallelReports = 4

// Extractor implements port.TextExtractor.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ReportText extracts every page of every report and joins the page texts
// in upload order, then page order. A page without text contributes an
// empty string, so the number of separators is always pages-1.
func (e *Extractor) ReportText(ctx context.Context, reports []domain.Upload) (string, error) {
	pages := make([][]string, len(reports))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReports)
	for i, r := range reports {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			texts, err := PDFPages(r.Data)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, r.Name, err)
			}
			e.logger.Debug("report extracted", "file", r.Name, "pages", len(texts))
			pages[i] = texts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return JoinPages(pages), nil
}

// TemplateText returns the body paragraph texts followed by the table cell
// paragraph texts, one per line.
func (e *Extractor) TemplateText(data []byte) (string, error) {
	doc, err := docx.Open(data)
	if err != nil {
		return "", fmt.Errorf("%w: template: %w", domain.ErrExtractionFailed, err)
	}

	var lines []string
	doc.Walk(func(p *docx.Paragraph) {
		lines = append(lines, p.Text())
	})
	return strings.Join(lines, "\n"), nil
}

// PDFPages returns the plain text of each page of a PDF, in page order.
// The pdf package panics on malformed objects; those panics are returned
// as errors.
func PDFPages(data []byte) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	if len(data) == 0 {
		return nil, errors.New("empty pdf content")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	n := r.NumPage()
	texts = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() || page.V.Key("Contents").IsNull() {
			texts = append(texts, "")
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			return nil, fmt.Errorf("page %d: %w", i, perr)
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// JoinPages flattens per-file page texts and joins them with PageSeparator.
func JoinPages(files [][]string) string {
	var all []string
	for _, pages := range files {
		all = append(all, pages...)
	}
	return strings.Join(all, PageSeparator)
}
