package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/quotes-tracker/internal/batch"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// Service writes batch reports to disk.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Write renders results to path as XLSX when the extension is .xlsx and as
// CSV otherwise. It returns the report rows.
func (s *Service) Write(path string, results []batch.Result) ([]Row, error) {
	start := time.Now()
	rows := Rows(results)

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		docs := make([]*entity.QuoteDocument, 0, len(results))
		for _, r := range results {
			if r.OK() {
				docs = append(docs, r.Document)
			}
		}
		b, err := XLSX(rows, docs)
		if err != nil {
			return rows, err
		}
		buf.Write(b)
	default:
		if err := WriteCSV(&buf, rows); err != nil {
			return rows, err
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return rows, fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return rows, fmt.Errorf("write report: %w", err)
	}

	s.logger.Info("report written", "path", path, "rows", len(rows), "bytes", buf.Len(), "elapsed", time.Since(start))
	return rows, nil
}
