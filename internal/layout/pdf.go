package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
)

// ErrNoPages is returned when a source has nothing to offer for a path.
var ErrNoPages = errors.New("no pages")

var disableConfigDir sync.Once

// PDFReader recovers pages from PDF files. pdfcpu validates the file
// structure first; glyph positions come from ledongthuc/pdf.
type PDFReader struct {
	RowTolerance float64
	logger       *slog.Logger
}

// NewPDFReader creates a PDF layout reader.
func NewPDFReader(logger *slog.Logger) *PDFReader {
	if logger == nil {
		logger = slog.Default()
	}
	disableConfigDir.Do(api.DisableConfigDir)
	return &PDFReader{RowTolerance: DefaultRowTolerance, logger: logger}
}

// Pages returns the text lines and quote table of every page.
func (r *PDFReader) Pages(ctx context.Context, path string) (pages []Page, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := common.LoggerFrom(ctx, r.logger)

	pageCount, err := validate(path)
	if err != nil {
		return nil, err
	}

	f, rd, err := pdf.Open(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeOpen, "open pdf", fmt.Errorf("%w: %v", common.ErrUnreadable, err))
	}
	defer f.Close()

	// The content decoder panics on some malformed streams.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = common.NewAppError(common.CodeRead, "extract page content", fmt.Errorf("%w: %v", common.ErrUnreadable, rec))
		}
	}()

	for i := 1; i <= rd.NumPage(); i++ {
		p := rd.Page(i)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		glyphs := make([]Glyph, 0, len(content.Text))
		for _, t := range content.Text {
			glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
		}
		pages = append(pages, BuildPage(i, GroupRows(glyphs, r.RowTolerance)))
	}

	log.Debug("pdf pages extracted", "declared", pageCount, "extracted", len(pages))
	return pages, nil
}

// validate checks the PDF structure and returns its page count.
func validate(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, common.NewAppError(common.CodeOpen, "open file", fmt.Errorf("%w: %v", common.ErrUnreadable, err))
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, common.NewAppError(common.CodeOpen, "pdfcpu read", fmt.Errorf("%w: %v", common.ErrUnreadable, err))
	}
	return pctx.PageCount, nil
}
