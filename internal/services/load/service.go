// Package load writes parsed quotes and shop data to the relational store.
package load

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/quotes-tracker/internal/repository"
)

// Store runs a unit of work in one transaction.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repositories) error) error
}

// Validator rejects documents that must not be persisted.
type Validator func(plan PlannedQuote) error

// Stats counts what one load wrote.
type Stats struct {
	Clients          int
	QuotesInserted   int
	QuotesSkipped    int
	QuotesRejected   int
	SubAreas         int
	LineItems        int
	PaymentsInserted int
	PaymentsSkipped  int
	Elapsed          time.Duration
}

// Service loads a Plan into a Store.
type Service struct {
	store    Store
	validate Validator
	logger   *slog.Logger
}

// NewService creates a new load service. validate may be nil.
func NewService(store Store, validate Validator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, validate: validate, logger: logger}
}

// Load writes clients, quotes, sub-areas, line items and payments in one
// transaction. Any write error rolls everything back.
func (s *Service) Load(ctx context.Context, plan Plan) (Stats, error) {
	start := time.Now()
	var stats Stats

	s.logger.Info("starting load", "clients", len(plan.Clients), "quotes", len(plan.Quotes), "payments", len(plan.Payments))
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		stats = Stats{}
		for _, c := range plan.Clients {
			if _, err := repos.Clients.Upsert(ctx, c); err != nil {
				return fmt.Errorf("client %q: %w", c.Name, err)
			}
			stats.Clients++
		}

		for _, q := range plan.Quotes {
			if s.validate != nil {
				if err := s.validate(q); err != nil {
					s.logger.Warn("quote rejected", "source_path", q.Record.Document.SourcePath, "error", err)
					stats.QuotesRejected++
					continue
				}
			}
			if err := s.loadQuote(ctx, repos, q, &stats); err != nil {
				return fmt.Errorf("quote %s: %w", q.Record.Document.SourcePath, err)
			}
		}

		for _, p := range plan.Payments {
			rec := p.Record
			if p.Email != "" {
				id, found, err := repos.Clients.IDByEmail(ctx, p.Email)
				if err != nil {
					return fmt.Errorf("payment %d: %w", rec.ExternalOrderID, err)
				}
				if found {
					rec.ClientID = &id
				}
			}
			inserted, err := repos.Payments.Insert(ctx, rec)
			if err != nil {
				return fmt.Errorf("payment %d: %w", rec.ExternalOrderID, err)
			}
			if inserted {
				stats.PaymentsInserted++
			} else {
				stats.PaymentsSkipped++
			}
		}
		return nil
	})
	stats.Elapsed = time.Since(start)
	if err != nil {
		s.logger.Error("load rolled back", "error", err)
		return Stats{Elapsed: stats.Elapsed}, err
	}

	s.logger.Info("load completed",
		"clients", stats.Clients,
		"quotes_inserted", stats.QuotesInserted,
		"quotes_skipped", stats.QuotesSkipped,
		"quotes_rejected", stats.QuotesRejected,
		"line_items", stats.LineItems,
		"payments_inserted", stats.PaymentsInserted,
		"elapsed_ms", stats.Elapsed.Milliseconds(),
	)
	return stats, nil
}

func (s *Service) loadQuote(ctx context.Context, repos *repository.Repositories, q PlannedQuote, stats *Stats) error {
	rec := q.Record
	if q.ClientName != "" {
		id, found, err := repos.Clients.IDByName(ctx, q.ClientName)
		if err != nil {
			return err
		}
		if found {
			rec.ClientID = &id
		}
	}

	quoteID, inserted, err := repos.Quotes.Insert(ctx, rec)
	if err != nil {
		return err
	}
	if !inserted {
		stats.QuotesSkipped++
		return nil
	}
	stats.QuotesInserted++

	doc := rec.Document
	subAreaIDs, err := repos.Quotes.InsertSubAreas(ctx, quoteID, doc.SubAreas)
	if err != nil {
		return err
	}
	stats.SubAreas += len(doc.SubAreas)
	if err := repos.Quotes.InsertLineItems(ctx, quoteID, doc.LineItems, subAreaIDs); err != nil {
		return err
	}
	stats.LineItems += len(doc.LineItems)
	return nil
}
