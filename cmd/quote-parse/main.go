package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
	"github.com/joseph-ayodele/quotes-tracker/internal/layout"
	"github.com/joseph-ayodele/quotes-tracker/internal/parser"
	"github.com/joseph-ayodele/quotes-tracker/internal/schema"
)

func main() {
	var (
		lines      = flag.Int("lines", 0, "print the first N lines of page 1 with their index")
		tables     = flag.Bool("tables", false, "print the table rows of every page")
		configPath = flag.String("config", "", "YAML config file overlaid on the environment")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: quote-parse [-lines N] [-tables] [-config file.yaml] <quote.pdf>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := common.LoadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := common.NewConsoleLogger(os.Stderr, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reader := layout.NewPDFReader(logger)
	if *lines > 0 || *tables {
		pages, err := reader.Pages(ctx, path)
		if err != nil {
			logger.Error("failed to read layout", "path", path, "error", err)
			os.Exit(1)
		}
		if *lines > 0 && len(pages) > 0 {
			for i, l := range pages[0].Lines {
				if i >= *lines {
					break
				}
				fmt.Printf("%3d: %s\n", i, l)
			}
		}
		if *tables {
			for _, pg := range pages {
				for ti, t := range pg.Tables {
					fmt.Printf("-- page %d table %d (%d rows)\n", pg.Number, ti, len(t))
					for _, row := range t {
						fmt.Printf("   %q\n", row)
					}
				}
			}
		}
		return
	}

	doc, err := parser.NewParser(reader, cfg.Parser, logger).ParseFile(ctx, path)
	if err != nil {
		logger.Error("failed to parse", "path", path, "code", common.ErrorCode(err), "error", err)
		os.Exit(1)
	}
	if err := schema.Validate(doc); err != nil {
		logger.Warn("document does not match the record schema", "path", path, "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		logger.Error("failed to encode", "error", err)
		os.Exit(1)
	}
}
