package parser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
	"github.com/joseph-ayodele/quotes-tracker/internal/layout"
)

// Parser turns one document into a QuoteDocument.
type Parser struct {
	reader  layout.Reader
	clients *ClientExtractor
	logger  *slog.Logger
}

// NewParser creates a parser reading pages through reader.
func NewParser(reader layout.Reader, cfg common.ParserConfig, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		reader:  reader,
		clients: NewClientExtractor(cfg.NoiseMarkers),
		logger:  logger,
	}
}

// ParseFile reads, structures and hashes the document at path. Failures are
// *common.AppError values carrying a document-level code.
func (p *Parser) ParseFile(ctx context.Context, path string) (*entity.QuoteDocument, error) {
	log := common.LoggerFrom(ctx, p.logger)

	pages, err := p.reader.Pages(ctx, path)
	if err != nil {
		if common.ErrorCode(err) != "" {
			return nil, err
		}
		return nil, common.NewAppError(common.CodeRead, "read pages", err)
	}
	if len(pages) == 0 {
		return nil, common.NewAppError(common.CodeEmptyDocument, "document has no pages", common.ErrInvalidDocument)
	}

	doc, skipped := p.parsePages(pages)
	doc.SourcePath = path

	hash, err := HashFile(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeHash, fmt.Sprintf("hash %s", path), err)
	}
	doc.SourceHash = hash

	log.Debug("document parsed",
		"pages", len(pages),
		"number", doc.Number(),
		"sub_areas", len(doc.SubAreas),
		"line_items", len(doc.LineItems),
		"skipped_rows", skipped,
	)
	return doc, nil
}

// ParsePages structures already-extracted pages. pages must not be empty.
// SourceHash and SourcePath are left for the caller.
func (p *Parser) ParsePages(pages []layout.Page) *entity.QuoteDocument {
	doc, _ := p.parsePages(pages)
	return doc
}

// parsePages also reports how many table rows were skipped as noise.
func (p *Parser) parsePages(pages []layout.Page) (*entity.QuoteDocument, int) {
	first := pages[0]
	last := pages[len(pages)-1]
	firstText := first.Text()

	md := ExtractMetadata(firstText)

	pc := NewParseContext()
	for _, page := range pages {
		pc.ConsumeTables(page.Tables)
	}

	totals := ExtractTotals(last.Text())
	totals.TotalAreaSquareMeters = TotalArea(pc.SubAreas)

	return &entity.QuoteDocument{
		DocumentNumber: md.DocumentNumber,
		IssueDate:      md.IssueDate,
		ExpiryDate:     md.ExpiryDate,
		Client:         p.clients.Extract(first.Lines),
		Site:           ExtractSite(firstText),
		SubAreas:       pc.SubAreas,
		LineItems:      pc.LineItems,
		Totals:         totals,
	}, pc.Skipped
}
