package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

const (
	reportSheet    = "Report"
	lineItemsSheet = "Line items"
)

var lineItemHeaders = []string{
	"document_number",
	"issue_date",
	"client_name",
	"line_number",
	"sub_area",
	"sub_area_m2",
	"category",
	"title",
	"description",
	"quantity",
	"unit",
	"unit_price_excl_tax",
	"tax_rate_percent",
	"total_excl_tax",
}

// XLSX builds a workbook with the report sheet and a sheet flattening the
// line items of docs.
func XLSX(rows []Row, docs []*entity.QuoteDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(lineItemsSheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(reportSheet)
	f.SetActiveSheet(activeIndex)

	writeHeader(f, reportSheet, Headers)
	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(reportSheet, cell, v)
		}
		write(1, r.Filename)
		write(2, r.Success)
		write(3, r.DocumentNumber)
		write(4, r.ClientName)
		write(5, r.ClientCity)
		write(6, r.SubAreaCount)
		write(7, r.LineItemCount)
		if r.NetTotal != nil {
			write(8, *r.NetTotal)
		}
		if r.GrossTotal != nil {
			write(9, *r.GrossTotal)
		}
		write(10, r.DuplicateOf)
		write(11, r.Error)
	}
	_ = f.SetColWidth(reportSheet, "A", "A", 28) // file
	_ = f.SetColWidth(reportSheet, "C", "E", 22)
	_ = f.SetColWidth(reportSheet, "H", "I", 14) // amounts
	_ = f.SetColWidth(reportSheet, "K", "K", 60) // error

	writeHeader(f, lineItemsSheet, lineItemHeaders)
	row := 2
	for _, d := range docs {
		if d == nil {
			continue
		}
		issued := ""
		if d.IssueDate != nil {
			issued = d.IssueDate.String()
		}
		for _, li := range d.LineItems {
			values := []any{
				d.Number(), issued, d.ClientName(), li.LineNumber,
				entity.Deref(li.SubAreaRef), nil, entity.Deref(li.Category),
				li.Title, li.Description, li.Quantity, li.Unit,
				li.UnitPriceExclTax, li.TaxRatePercent, li.TotalExclTax,
			}
			if li.SubAreaAreaSquareMeters != nil {
				values[5] = *li.SubAreaAreaSquareMeters
			}
			for col, v := range values {
				if v == nil {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				_ = f.SetCellValue(lineItemsSheet, cell, v)
			}
			row++
		}
	}
	_ = f.SetColWidth(lineItemsSheet, "H", "I", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}
