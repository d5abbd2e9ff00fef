package layout

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultRowTolerance is the vertical distance (pt) under which glyphs share a row.
	DefaultRowTolerance = 2.0
	defaultFontSize     = 10.0
	wordGapFactor       = 0.2
	cellGapFactor       = 1.5
	continuationFactor  = 2.2
)

var (
	reBareID     = regexp.MustCompile(`^\d+(?:\.\d+)*$`)
	reNumbered   = regexp.MustCompile(`^\d+(?:\.\d+)*\s`)
	reItemID     = regexp.MustCompile(`^\d+\.\d+\.\d+\s`)
	reTotalsHead = regexp.MustCompile(`(?i)^total\s+(?:net\s+)?(?:ht|ttc)\b`)
	// numeric columns ending an item row whose cells were not split
	rePriceTail  = regexp.MustCompile(`\s+\d+(?:[.,]\d+)?\s+\S+\s+[\d\s.,\x{a0}\x{202f}]+€\s+[\d.,]+\s*%\s+[\d\s.,\x{a0}\x{202f}]+€\s*$`)
	headerLabels = []string{"DÉSIGNATION", "DESIGNATION"}
)

// Glyph is one positioned text run of a page. Y grows upwards.
type Glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

// Row is a visual line of a page split into cells on wide horizontal gaps.
type Row struct {
	Y        float64
	FontSize float64
	Cells    []string
}

// Text joins the cells with single spaces.
func (r Row) Text() string {
	return strings.Join(r.Cells, " ")
}

// GroupRows clusters glyphs into rows top to bottom and splits each row
// into words and cells by the gap to the previous glyph.
func GroupRows(glyphs []Glyph, tolerance float64) []Row {
	if tolerance <= 0 {
		tolerance = DefaultRowTolerance
	}

	type bucket struct {
		y      float64
		glyphs []Glyph
	}
	var buckets []bucket
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		placed := false
		for i := range buckets {
			if math.Abs(buckets[i].y-g.Y) < tolerance {
				buckets[i].glyphs = append(buckets[i].glyphs, g)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{y: g.Y, glyphs: []Glyph{g}})
		}
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].y > buckets[j].y })

	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		sort.SliceStable(b.glyphs, func(i, j int) bool { return b.glyphs[i].X < b.glyphs[j].X })
		if row, ok := buildRow(b.y, b.glyphs); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func buildRow(y float64, glyphs []Glyph) (Row, bool) {
	row := Row{Y: y}
	var cell strings.Builder
	flush := func() {
		if s := strings.TrimSpace(norm.NFC.String(cell.String())); s != "" {
			row.Cells = append(row.Cells, strings.Join(strings.Fields(s), " "))
		}
		cell.Reset()
	}

	var prev *Glyph
	for i := range glyphs {
		g := &glyphs[i]
		size := g.FontSize
		if size <= 0 {
			size = defaultFontSize
		}
		row.FontSize = math.Max(row.FontSize, size)
		if prev != nil {
			gap := g.X - (prev.X + prev.W)
			switch {
			case gap > size*cellGapFactor:
				flush()
			case gap > size*wordGapFactor:
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(g.S)
		prev = g
	}
	flush()
	return row, len(row.Cells) > 0
}

// Lines renders rows as NFC text lines.
func Lines(rows []Row) []string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.Text())
	}
	return lines
}

// BuildTable recovers the quote table of a page: the rows after the
// designation header (or the whole page when there is none) up to the
// totals block. Each table row is one cell holding the row text, with
// wrapped designation lines folded into the preceding line item ahead of
// its numeric columns. Subtotal rows inside the table are kept.
func BuildTable(rows []Row) Table {
	start := 0
	for i, r := range rows {
		if isHeaderRow(r.Text()) {
			start = i + 1
			break
		}
	}

	type entry struct {
		designation string
		tail        string // numeric columns cut off an unsplit designation
		rest        []string
		y           float64
		item        bool
		wrapped     bool
	}
	var entries []entry
	for _, r := range rows[start:] {
		if isTotalRow(r.Text()) {
			break
		}
		cells := mergeID(r.Cells)
		if n := len(entries); n > 0 && len(cells) == 1 {
			last := &entries[n-1]
			if last.item && !reNumbered.MatchString(cells[0]+" ") && last.y-r.Y <= r.FontSize*continuationFactor {
				sep := " "
				if !last.wrapped {
					sep = "\n"
					if len(last.rest) == 0 {
						if loc := rePriceTail.FindStringIndex(last.designation); loc != nil {
							last.tail = last.designation[loc[0]:]
							last.designation = last.designation[:loc[0]]
						}
					}
				}
				last.designation += sep + cells[0]
				last.wrapped = true
				last.y = r.Y
				continue
			}
		}
		entries = append(entries, entry{
			designation: cells[0],
			rest:        cells[1:],
			y:           r.Y,
			item:        reItemID.MatchString(cells[0] + " "),
		})
	}

	if len(entries) == 0 {
		return nil
	}
	table := make(Table, 0, len(entries))
	for _, e := range entries {
		text := e.designation + e.tail
		if len(e.rest) > 0 {
			text += " " + strings.Join(e.rest, " ")
		}
		table = append(table, []string{text})
	}
	return table
}

// mergeID joins a lone numbering cell with the designation that follows it.
func mergeID(cells []string) []string {
	if len(cells) > 1 && reBareID.MatchString(cells[0]) {
		merged := append([]string{cells[0] + " " + cells[1]}, cells[2:]...)
		return merged
	}
	return cells
}

func isHeaderRow(text string) bool {
	upper := strings.ToUpper(text)
	for _, label := range headerLabels {
		if strings.Contains(upper, label) {
			return true
		}
	}
	return false
}

// isTotalRow matches the first line of the totals block ("Total HT",
// "Total net HT", "Total TTC"), not per-room subtotals.
func isTotalRow(text string) bool {
	return reTotalsHead.MatchString(strings.TrimSpace(text))
}

// BuildPage assembles the lines and table of one page from its rows.
func BuildPage(number int, rows []Row) Page {
	page := Page{Number: number, Lines: Lines(rows)}
	if t := BuildTable(rows); len(t) > 0 {
		page.Tables = []Table{t}
	}
	return page
}
