// Package export writes the per-document QA report of a batch run as CSV or
// XLSX.
package export

import (
	"path/filepath"
	"strconv"

	"github.com/joseph-ayodele/quotes-tracker/internal/batch"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// Headers of the report, in column order.
var Headers = []string{
	"file",
	"success",
	"document_number",
	"client_name",
	"client_city",
	"sub_areas",
	"line_items",
	"net_total",
	"gross_total",
	"duplicate_of",
	"error",
}

// Row is one report line. Every processed document gets exactly one.
type Row struct {
	Filename       string
	Success        bool
	DocumentNumber string
	ClientName     string
	ClientCity     string
	SubAreaCount   int
	LineItemCount  int
	NetTotal       *float64
	GrossTotal     *float64
	DuplicateOf    string
	Error          string
}

// Rows builds one row per batch result, keeping their order.
func Rows(results []batch.Result) []Row {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		row := Row{Filename: filepath.Base(r.Path), Success: r.OK()}
		if r.DuplicateOf != "" {
			row.DuplicateOf = filepath.Base(r.DuplicateOf)
		}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		if d := r.Document; d != nil && row.Success {
			row.DocumentNumber = d.Number()
			row.ClientName = d.ClientName()
			row.ClientCity = entity.Deref(d.Client.City)
			row.SubAreaCount = len(d.SubAreas)
			row.LineItemCount = len(d.LineItems)
			row.NetTotal = d.Totals.NetTotal
			row.GrossTotal = d.Totals.GrossTotal
		}
		rows = append(rows, row)
	}
	return rows
}

// Record renders the row as report cells.
func (r Row) Record() []string {
	return []string{
		r.Filename,
		strconv.FormatBool(r.Success),
		r.DocumentNumber,
		r.ClientName,
		r.ClientCity,
		strconv.Itoa(r.SubAreaCount),
		strconv.Itoa(r.LineItemCount),
		formatAmount(r.NetTotal),
		formatAmount(r.GrossTotal),
		r.DuplicateOf,
		r.Error,
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// Summary aggregates the report.
type Summary struct {
	Total         int
	Succeeded     int
	Failed        int
	Duplicates    int
	WithNumber    int
	WithClient    int
	WithCity      int
	WithSubAreas  int
	WithLineItems int
	WithTotals    int
	LineItems     int
	NetTotal      float64
	GrossTotal    float64
}

// Summarize counts outcomes and how often each field was detected.
func Summarize(rows []Row) Summary {
	var s Summary
	s.Total = len(rows)
	for _, r := range rows {
		if r.DuplicateOf != "" {
			s.Duplicates++
		}
		if !r.Success {
			s.Failed++
			continue
		}
		s.Succeeded++
		if r.DocumentNumber != "" {
			s.WithNumber++
		}
		if r.ClientName != "" {
			s.WithClient++
		}
		if r.ClientCity != "" {
			s.WithCity++
		}
		if r.SubAreaCount > 0 {
			s.WithSubAreas++
		}
		if r.LineItemCount > 0 {
			s.WithLineItems++
		}
		if r.NetTotal != nil || r.GrossTotal != nil {
			s.WithTotals++
		}
		s.LineItems += r.LineItemCount
		if r.NetTotal != nil {
			s.NetTotal += *r.NetTotal
		}
		if r.GrossTotal != nil {
			s.GrossTotal += *r.GrossTotal
		}
	}
	return s
}
