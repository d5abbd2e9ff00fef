package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
	"github.com/joseph-ayodele/quotes-tracker/internal/layout"
	"github.com/joseph-ayodele/quotes-tracker/internal/parser"
)

type parseFunc func(ctx context.Context, path string) (*entity.QuoteDocument, error)

func (f parseFunc) ParseFile(ctx context.Context, path string) (*entity.QuoteDocument, error) {
	return f(ctx, path)
}

func writeFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("%PDF "+name), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func quotePage(number string) []layout.Page {
	return []layout.Page{{
		Number: 1,
		Lines:  []string{"N° " + number, "Mme Marie Dupont", "12 rue des Fleurs", "75001 Paris", "Total net HT 250,00 €"},
		Tables: []layout.Table{{
			{"1 Cuisine - 12.5 m²"},
			{"1.1 Revêtements"},
			{"1.1.1 Peinture murale 10 m2 25,00 € 10.0 % 250,00 €"},
		}},
	}}
}

func TestBatchScenarioOneInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "1.pdf", "2.pdf", "3.pdf")
	reader := layout.StaticReader{
		paths[0]: quotePage("D202501-001"),
		paths[1]: {},
		paths[2]: quotePage("D202501-003"),
	}
	p := parser.NewParser(reader, common.ParserConfig{}, nil)

	results, stats, err := NewRunner(p, nil, WithWorkers(3)).RunDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].OK())
	assert.Equal(t, "D202501-001", results[0].Document.Number())
	assert.False(t, results[1].OK())
	require.Error(t, results[1].Err)
	assert.NotEmpty(t, results[1].Err.Error())
	assert.Equal(t, common.CodeEmptyDocument, common.ErrorCode(results[1].Err))
	assert.True(t, results[2].OK())
	assert.Equal(t, "D202501-003", results[2].Document.Number())
	assert.Len(t, results[2].Document.LineItems, 1)

	assert.Equal(t, uint32(3), stats.Dir.Matched)
	assert.Equal(t, uint32(2), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)
}

func TestRunRecoversPanics(t *testing.T) {
	p := parseFunc(func(_ context.Context, path string) (*entity.QuoteDocument, error) {
		if filepath.Base(path) == "boom.pdf" {
			panic("index out of range")
		}
		return &entity.QuoteDocument{SourcePath: path, SourceHash: path}, nil
	})

	results, stats := NewRunner(p, nil, WithWorkers(2)).Run(context.Background(), []string{"a.pdf", "boom.pdf", "c.pdf"})
	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.Equal(t, common.CodePanic, common.ErrorCode(results[1].Err))
	assert.Contains(t, results[1].Err.Error(), "index out of range")
	assert.True(t, results[2].OK())
	assert.Equal(t, uint32(1), stats.Failed)
}

func TestRunKeepsOrderUnderConcurrency(t *testing.T) {
	var inflight, peak atomic.Int32
	p := parseFunc(func(_ context.Context, path string) (*entity.QuoteDocument, error) {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		return &entity.QuoteDocument{SourcePath: path, SourceHash: path}, nil
	})

	paths := make([]string, 50)
	for i := range paths {
		paths[i] = filepath.Join("docs", string(rune('a'+i%26))+string(rune('a'+i/26))+".pdf")
	}
	results, stats := NewRunner(p, nil, WithWorkers(4)).Run(context.Background(), paths)

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
		assert.Equal(t, paths[i], r.Document.SourcePath)
	}
	assert.Equal(t, uint32(50), stats.Succeeded)
	assert.LessOrEqual(t, peak.Load(), int32(4))
}

func TestRunMarksDuplicates(t *testing.T) {
	p := parseFunc(func(_ context.Context, path string) (*entity.QuoteDocument, error) {
		return &entity.QuoteDocument{SourcePath: path, SourceHash: "same"}, nil
	})
	results, stats := NewRunner(p, nil).Run(context.Background(), []string{"a.pdf", "copy-of-a.pdf"})

	assert.Empty(t, results[0].DuplicateOf)
	assert.Equal(t, "a.pdf", results[1].DuplicateOf)
	assert.Equal(t, uint32(1), stats.Duplicates)
}

func TestRunValidatorRejects(t *testing.T) {
	p := parseFunc(func(_ context.Context, path string) (*entity.QuoteDocument, error) {
		return &entity.QuoteDocument{SourcePath: path}, nil
	})
	reject := func(*entity.QuoteDocument) error { return common.ErrValidation }

	results, _ := NewRunner(p, nil, WithValidator(reject)).Run(context.Background(), []string{"a.pdf"})
	assert.Equal(t, common.CodeValidation, common.ErrorCode(results[0].Err))
	assert.ErrorIs(t, results[0].Err, common.ErrValidation)
}

func TestRunStopsSubmittingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var parsed atomic.Int32
	p := parseFunc(func(pctx context.Context, path string) (*entity.QuoteDocument, error) {
		parsed.Add(1)
		cancel()
		if pctx.Err() != nil {
			return nil, errors.New("in-flight document was interrupted")
		}
		return &entity.QuoteDocument{SourcePath: path, SourceHash: path}, nil
	})

	results, stats := NewRunner(p, nil, WithWorkers(1)).Run(ctx, []string{"a.pdf", "b.pdf", "c.pdf"})
	require.Len(t, results, 3)
	assert.True(t, results[0].OK(), "the in-flight document completes")
	assert.Equal(t, int32(1), parsed.Load())
	for _, r := range results[1:] {
		assert.Equal(t, common.CodeCanceled, common.ErrorCode(r.Err))
	}
	assert.Equal(t, uint32(1), stats.Submitted)
	assert.Equal(t, uint32(2), stats.Failed)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.pdf", "a.PDF", "notes.txt", ".hidden.pdf", ".cache/x.pdf", "sub/c.pdf")

	paths, failures, stats, err := Discover(dir, true, 0)
	require.NoError(t, err)
	assert.Empty(t, failures)
	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		rel = append(rel, r)
	}
	assert.Equal(t, []string{"a.PDF", "b.pdf", filepath.Join("sub", "c.pdf")}, rel)
	assert.Equal(t, uint32(3), stats.Matched)

	paths, _, _, err = Discover(dir, false, 0)
	require.NoError(t, err)
	assert.Len(t, paths, 5)

	paths, _, _, err = Discover(dir, true, 2)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestDiscoverRejectsBadRoot(t *testing.T) {
	_, _, _, err := Discover("", true, 0)
	assert.Error(t, err)
	_, _, _, err = Discover(filepath.Join(t.TempDir(), "missing"), true, 0)
	assert.Error(t, err)
	file := writeFiles(t, t.TempDir(), "x.pdf")[0]
	_, _, _, err = Discover(file, true, 0)
	assert.Error(t, err)
}
