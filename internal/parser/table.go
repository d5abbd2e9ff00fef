package parser

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
	"github.com/joseph-ayodele/quotes-tracker/internal/layout"
)

// RowKind classifies one table row.
type RowKind int

const (
	RowNoise RowKind = iota
	RowSubArea
	RowCategory
	RowLineItem
)

func (k RowKind) String() string {
	switch k {
	case RowSubArea:
		return "sub_area"
	case RowCategory:
		return "category"
	case RowLineItem:
		return "line_item"
	default:
		return "noise"
	}
}

// Row is a classified table row with the captures of the matching pattern.
type Row struct {
	Kind   RowKind
	Groups []string
}

type rowMatcher struct {
	kind RowKind
	re   *regexp.Regexp
}

// Order matters: the first matching pattern wins.
var rowMatchers = []rowMatcher{
	{RowSubArea, reSubArea},
	{RowCategory, reCategory},
	{RowLineItem, reLineItem},
}

// ClassifyRow tags line as a sub-area header, category header, priced line
// or noise.
func ClassifyRow(line string) Row {
	for _, m := range rowMatchers {
		if groups := m.re.FindStringSubmatch(line); groups != nil {
			return Row{Kind: m.kind, Groups: groups}
		}
	}
	return Row{Kind: RowNoise}
}

// ParseContext accumulates the sub-areas and line items of one document.
// The current sub-area and category carry across tables and pages.
type ParseContext struct {
	CurrentSubArea  *entity.SubArea
	CurrentCategory *string

	SubAreas  []entity.SubArea
	LineItems []entity.LineItem
	Skipped   int
}

// NewParseContext returns an empty context for one document.
func NewParseContext() *ParseContext {
	return &ParseContext{
		SubAreas:  []entity.SubArea{},
		LineItems: []entity.LineItem{},
	}
}

// ConsumeTables feeds every row of tables in order.
func (c *ParseContext) ConsumeTables(tables []layout.Table) {
	for _, t := range tables {
		for _, row := range t {
			c.ConsumeRow(row)
		}
	}
}

// ConsumeRow classifies one row and updates the context.
func (c *ParseContext) ConsumeRow(cells []string) {
	line := firstCell(cells)
	if line == "" || isHeader(line) {
		return
	}
	row := ClassifyRow(line)
	switch row.Kind {
	case RowSubArea:
		c.onSubArea(row.Groups)
	case RowCategory:
		category := strings.TrimSpace(row.Groups[2])
		c.CurrentCategory = &category
	case RowLineItem:
		if item, ok := c.lineItem(row.Groups); ok {
			c.LineItems = append(c.LineItems, item)
		} else {
			c.Skipped++
		}
	default:
		c.Skipped++
	}
}

func (c *ParseContext) onSubArea(g []string) {
	area, err := ParseDecimal(g[3])
	if err != nil {
		c.Skipped++
		return
	}
	id := g[1]
	for i := range c.SubAreas {
		if c.SubAreas[i].SequenceID == id {
			existing := c.SubAreas[i]
			c.CurrentSubArea = &existing
			return
		}
	}
	sa := entity.SubArea{SequenceID: id, Name: strings.TrimSpace(g[2]), AreaSquareMeters: area}
	c.SubAreas = append(c.SubAreas, sa)
	c.CurrentSubArea = &sa
}

func (c *ParseContext) lineItem(g []string) (entity.LineItem, bool) {
	qty, err := ParseDecimal(g[3])
	if err != nil {
		return entity.LineItem{}, false
	}
	unitPrice, err := ParseDecimal(g[5])
	if err != nil {
		return entity.LineItem{}, false
	}
	tax, err := ParseDecimal(g[6])
	if err != nil {
		return entity.LineItem{}, false
	}
	total, err := ParseDecimal(g[7])
	if err != nil {
		return entity.LineItem{}, false
	}

	title, description, _ := strings.Cut(strings.TrimSpace(g[2]), "\n")
	item := entity.LineItem{
		LineNumber:       g[1],
		Title:            strings.TrimSpace(title),
		Description:      strings.TrimSpace(description),
		Quantity:         qty,
		Unit:             g[4],
		UnitPriceExclTax: unitPrice,
		TaxRatePercent:   tax,
		TotalExclTax:     total,
	}
	if sa := c.CurrentSubArea; sa != nil {
		item.SubAreaRef = entity.Ptr(sa.Name)
		item.SubAreaAreaSquareMeters = entity.Ptr(sa.AreaSquareMeters)
	}
	if c.CurrentCategory != nil {
		item.Category = entity.Ptr(*c.CurrentCategory)
	}
	return item, true
}

func firstCell(cells []string) string {
	for _, cell := range cells {
		if s := strings.TrimSpace(cell); s != "" {
			return s
		}
	}
	return ""
}

func isHeader(line string) bool {
	upper := strings.ToUpper(line)
	return strings.Contains(upper, "DÉSIGNATION") || strings.Contains(upper, "DESIGNATION")
}
