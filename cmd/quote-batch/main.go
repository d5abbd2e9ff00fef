package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/quotes-tracker/internal/batch"
	"github.com/joseph-ayodele/quotes-tracker/internal/commerce"
	"github.com/joseph-ayodele/quotes-tracker/internal/common"
	"github.com/joseph-ayodele/quotes-tracker/internal/export"
	"github.com/joseph-ayodele/quotes-tracker/internal/layout"
	"github.com/joseph-ayodele/quotes-tracker/internal/parser"
	repo "github.com/joseph-ayodele/quotes-tracker/internal/repository"
	"github.com/joseph-ayodele/quotes-tracker/internal/schema"
	"github.com/joseph-ayodele/quotes-tracker/internal/services/load"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir        = flag.String("dir", "", "directory of quote PDFs (required)")
		out        = flag.String("out", "", "report path, .csv or .xlsx (defaults to <parent>/parser_report.csv)")
		jsonDir    = flag.String("json-dir", "", "write one JSON document per parsed quote into this directory")
		limit      = flag.Int("limit", -1, "process at most N documents (overrides BATCH_LIMIT)")
		workers    = flag.Int("workers", 0, "parallel workers (overrides BATCH_WORKERS)")
		configPath = flag.String("config", "", "YAML config file overlaid on the environment")
		doLoad     = flag.Bool("load", false, "persist parsed quotes to DB_URL")
		sqlitePath = flag.String("sqlite", "", "persist to this SQLite file instead of DB_URL")
		doCommerce = flag.Bool("commerce", false, "fetch shop customers and orders before loading")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "parser_report.csv")
	}

	cfg, err := common.LoadConfigFile(*configPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *limit >= 0 {
		cfg.Batch.Limit = *limit
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *sqlitePath != "" {
		cfg.Database.SQLitePath = *sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	persist := *doLoad || *sqlitePath != ""
	if persist {
		if err := cfg.ValidateDatabase(); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Setup logger
	logger := common.NewJSONLogger(os.Stdout, cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Parse the directory
	reader := layout.NewPDFReader(logger)
	p := parser.NewParser(reader, cfg.Parser, logger)
	runner := batch.NewRunner(p, logger,
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithLimit(cfg.Batch.Limit),
		batch.WithValidator(schema.Validate),
	)
	results, stats, err := runner.RunDirectory(ctx, *dir)
	if err != nil {
		logger.Error("batch failed", "dir", *dir, "error", err)
		os.Exit(1)
	}

	rows, err := export.NewService(logger).Write(*out, results)
	if err != nil {
		logger.Error("failed to write report", "output", *out, "error", err)
		os.Exit(1)
	}

	if *jsonDir != "" {
		if err := writeDocuments(*jsonDir, results); err != nil {
			logger.Error("failed to write documents", "json_dir", *jsonDir, "error", err)
			os.Exit(1)
		}
	}

	var loadStats *load.Stats
	if persist {
		s, err := persistResults(ctx, cfg, results, *doCommerce, logger)
		if err != nil {
			logger.Error("load failed", "error", err)
			os.Exit(1)
		}
		loadStats = &s
	}

	printSummary(*dir, *out, stats, export.Summarize(rows), loadStats)
}

func writeDocuments(dir string, results []batch.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		b, err := json.MarshalIndent(r.Document, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.Path, err)
		}
		name := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path)) + ".json"
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func persistResults(ctx context.Context, cfg *common.Config, results []batch.Result, withCommerce bool, logger *slog.Logger) (load.Stats, error) {
	var in load.Input
	for _, r := range results {
		if r.OK() && r.DuplicateOf == "" {
			in.Documents = append(in.Documents, r.Document)
		}
	}

	if withCommerce {
		client, err := commerce.NewClient(cfg.Commerce, nil, logger)
		if err != nil {
			return load.Stats{}, err
		}
		if in.Customers, err = client.Customers(ctx); err != nil {
			return load.Stats{}, err
		}
		if in.Orders, err = client.Orders(ctx, commerce.OrderQuery{}); err != nil {
			return load.Stats{}, err
		}
	}

	var (
		db  *repo.DB
		err error
	)
	if cfg.Database.SQLitePath != "" {
		db, err = repo.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
	} else {
		db, err = repo.Open(ctx, cfg.Database, logger)
	}
	if err != nil {
		return load.Stats{}, err
	}
	defer db.Close()
	if err := db.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
		return load.Stats{}, err
	}

	svc := load.NewService(db, func(q load.PlannedQuote) error {
		return schema.Validate(q.Record.Document)
	}, logger)
	return svc.Load(ctx, load.Transform(in))
}

func printSummary(dir, out string, stats batch.Stats, sum export.Summary, ls *load.Stats) {
	pct := func(n int) string {
		if sum.Succeeded == 0 {
			return "0.0%"
		}
		return fmt.Sprintf("%.1f%%", float64(n)*100/float64(sum.Succeeded))
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Directory: %s\n", dir)
	fmt.Printf("- Documents: %d scanned, %d matched\n", stats.Dir.Scanned, stats.Dir.Matched)
	fmt.Printf("- Parsed: %d succeeded, %d failed, %d duplicates\n", sum.Succeeded, sum.Failed, sum.Duplicates)
	fmt.Printf("- Quote number: %d (%s)\n", sum.WithNumber, pct(sum.WithNumber))
	fmt.Printf("- Client name: %d (%s)\n", sum.WithClient, pct(sum.WithClient))
	fmt.Printf("- Client city: %d (%s)\n", sum.WithCity, pct(sum.WithCity))
	fmt.Printf("- Sub-areas: %d (%s)\n", sum.WithSubAreas, pct(sum.WithSubAreas))
	fmt.Printf("- Line items: %d in %d documents (%s)\n", sum.LineItems, sum.WithLineItems, pct(sum.WithLineItems))
	fmt.Printf("- Totals: %d (%s), net %.2f, gross %.2f\n", sum.WithTotals, pct(sum.WithTotals), sum.NetTotal, sum.GrossTotal)
	fmt.Printf("- Elapsed: %s\n", stats.Elapsed)
	fmt.Printf("- Report: %s\n", out)
	if ls != nil {
		fmt.Printf("- Loaded: %d clients, %d quotes (%d already stored, %d rejected), %d line items, %d payments\n",
			ls.Clients, ls.QuotesInserted, ls.QuotesSkipped, ls.QuotesRejected, ls.LineItems, ls.PaymentsInserted)
	}
}
