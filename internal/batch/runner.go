// Package batch parses a directory of quote documents with a bounded worker
// pool. A failing document never aborts the run.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// DocumentParser parses one document.
type DocumentParser interface {
	ParseFile(ctx context.Context, path string) (*entity.QuoteDocument, error)
}

// Result is the outcome for one document, in discovery order.
type Result struct {
	Path        string
	Document    *entity.QuoteDocument
	Err         error
	DuplicateOf string // path of an earlier document with the same content hash
	Duration    time.Duration
}

// OK reports whether the document parsed.
func (r Result) OK() bool {
	return r.Err == nil && r.Document != nil
}

// Stats aggregates a run.
type Stats struct {
	Dir        DirStats
	Submitted  uint32
	Succeeded  uint32
	Failed     uint32
	Duplicates uint32
	Elapsed    time.Duration
}

// Runner fans documents out to a fixed number of workers.
type Runner struct {
	parser     DocumentParser
	logger     *slog.Logger
	workers    int
	limit      int
	skipHidden bool
	validate   func(*entity.QuoteDocument) error
}

type Option func(*Runner)

func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLimit caps the number of documents discovered; 0 means all.
func WithLimit(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.limit = n
		}
	}
}

func WithSkipHidden(skip bool) Option {
	return func(r *Runner) { r.skipHidden = skip }
}

// WithValidator checks every parsed document; a rejected document is a failure.
func WithValidator(fn func(*entity.QuoteDocument) error) Option {
	return func(r *Runner) { r.validate = fn }
}

func NewRunner(parser DocumentParser, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		parser:     parser,
		logger:     logger,
		workers:    4,
		skipHidden: true,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RunDirectory discovers the documents under root and parses them.
func (r *Runner) RunDirectory(ctx context.Context, root string) ([]Result, Stats, error) {
	if common.RunIDFromContext(ctx) == "" {
		ctx = common.WithRunID(ctx, uuid.NewString())
	}
	paths, failures, dirStats, err := Discover(root, r.skipHidden, r.limit)
	if err != nil {
		return nil, Stats{Dir: dirStats}, err
	}
	common.LoggerFrom(ctx, r.logger).Info("documents discovered",
		"root", root, "scanned", dirStats.Scanned, "matched", dirStats.Matched, "walk_failures", dirStats.Failed)

	results, stats := r.Run(ctx, paths)
	stats.Dir = dirStats
	for _, f := range failures {
		results = append(results, Result{
			Path: f.Path,
			Err:  common.NewAppError(common.CodeOpen, "walk", f.Err),
		})
		stats.Failed++
	}
	return results, stats, nil
}

// Run parses paths with the worker pool. Results keep the order of paths.
// Once ctx is done no further document is started; documents already being
// parsed finish and the rest are reported as canceled.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, Stats) {
	start := time.Now()
	if common.RunIDFromContext(ctx) == "" {
		ctx = common.WithRunID(ctx, uuid.NewString())
	}
	log := common.LoggerFrom(ctx, r.logger)

	results := make([]Result, len(paths))
	submitted := make([]bool, len(paths))

	var mu sync.Mutex
	next := 0
	// take hands out the next document unless the run was canceled.
	take := func() (int, bool) {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil || next >= len(paths) {
			return 0, false
		}
		idx := next
		next++
		submitted[idx] = true
		return idx, true
	}

	var wg sync.WaitGroup
	workers := min(r.workers, max(len(paths), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				idx, ok := take()
				if !ok {
					return
				}
				results[idx] = r.process(context.WithoutCancel(ctx), workerID, paths[idx])
			}
		}(w + 1)
	}
	wg.Wait()

	var stats Stats
	firstByHash := make(map[string]string)
	for i := range results {
		if !submitted[i] {
			results[i] = Result{
				Path: paths[i],
				Err:  common.NewAppError(common.CodeCanceled, "batch stopped before document was started", ctx.Err()),
			}
			stats.Failed++
			continue
		}
		stats.Submitted++
		if !results[i].OK() {
			stats.Failed++
			continue
		}
		stats.Succeeded++
		hash := results[i].Document.SourceHash
		if first, seen := firstByHash[hash]; seen {
			results[i].DuplicateOf = first
			stats.Duplicates++
		} else {
			firstByHash[hash] = results[i].Path
		}
	}
	stats.Elapsed = time.Since(start)

	log.Info("batch finished",
		"documents", len(paths),
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"duplicates", stats.Duplicates,
		"elapsed", stats.Elapsed,
	)
	return results, stats
}

func (r *Runner) process(ctx context.Context, workerID int, path string) (res Result) {
	ctx = common.WithDocument(ctx, path)
	log := common.LoggerFrom(ctx, r.logger).With("worker_id", workerID)
	start := time.Now()
	res.Path = path

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("parser panicked", "panic", rec, "stack", string(debug.Stack()))
			res.Document = nil
			res.Err = common.NewAppError(common.CodePanic, fmt.Sprint(rec), common.ErrInvalidDocument)
		}
		res.Duration = time.Since(start)
	}()

	doc, err := r.parser.ParseFile(ctx, path)
	if err != nil {
		log.Warn("document failed", "error", err)
		res.Err = err
		return res
	}
	if r.validate != nil {
		if err := r.validate(doc); err != nil {
			log.Warn("document rejected", "error", err)
			res.Err = common.NewAppError(common.CodeValidation, "document rejected", err)
			return res
		}
	}
	log.Info("document parsed", "number", doc.Number(), "line_items", len(doc.LineItems))
	res.Document = doc
	return res
}
