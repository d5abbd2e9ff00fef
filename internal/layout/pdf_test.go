package layout

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
	"github.com/joseph-ayodele/quotes-tracker/internal/layout/layouttest"
)

func TestPDFReaderPages(t *testing.T) {
	var texts []layouttest.Text
	texts = append(texts, layouttest.Run(40, 800, "DEVIS N° D202501-001"))
	texts = append(texts, layouttest.Row(700, 40.0, "DÉSIGNATION", 300.0, "QTÉ", 380.0, "PU HT")...)
	texts = append(texts, layouttest.Run(40, 680, "1 Cuisine - 12.5 m²"))
	texts = append(texts, layouttest.Run(40, 660, "1.1 Revêtements"))
	texts = append(texts, layouttest.Row(640, 40.0, "1.1.1 Peinture murale", 300.0, "10", 340.0, "m2",
		380.0, "25,00 €", 450.0, "10.0 %", 520.0, "250,00 €")...)
	texts = append(texts, layouttest.Run(40, 628, "Deux couches"))
	texts = append(texts, layouttest.Row(560, 40.0, "Total net HT", 300.0, "250,00 €")...)

	path := filepath.Join(t.TempDir(), "devis.pdf")
	layouttest.WritePDF(t, path, texts)

	pages, err := NewPDFReader(nil).Pages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	page := pages[0]
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, []string{
		"DEVIS N° D202501-001",
		"DÉSIGNATION QTÉ PU HT",
		"1 Cuisine - 12.5 m²",
		"1.1 Revêtements",
		"1.1.1 Peinture murale 10 m2 25,00 € 10.0 % 250,00 €",
		"Deux couches",
		"Total net HT 250,00 €",
	}, page.Lines)

	require.Len(t, page.Tables, 1)
	assert.Equal(t, Table{
		{"1 Cuisine - 12.5 m²"},
		{"1.1 Revêtements"},
		{"1.1.1 Peinture murale\nDeux couches 10 m2 25,00 € 10.0 % 250,00 €"},
	}, page.Tables[0])
}

func TestPDFReaderRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := NewPDFReader(nil).Pages(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, common.CodeOpen, common.ErrorCode(err))
	assert.ErrorIs(t, err, common.ErrUnreadable)
}

func TestPDFReaderMissingFile(t *testing.T) {
	_, err := NewPDFReader(nil).Pages(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
	assert.Equal(t, common.CodeOpen, common.ErrorCode(err))
}

func TestPDFReaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPDFReader(nil).Pages(ctx, "whatever.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticReader(t *testing.T) {
	r := StaticReader{"a.pdf": {{Number: 1, Lines: []string{"x", "y"}}}}
	pages, err := r.Pages(context.Background(), "a.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "x\ny", pages[0].Text())

	_, err = r.Pages(context.Background(), "b.pdf")
	assert.ErrorIs(t, err, ErrNoPages)
}
