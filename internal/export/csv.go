package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("csv row %s: %w", r.Filename, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
