package repository

import (
	"context"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/quotes-tracker/constants"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// QuoteRecord is a parsed quote ready to persist. Totals are already
// zero-defaulted by the caller; TotalArea stays nullable.
type QuoteRecord struct {
	Document     *entity.QuoteDocument
	ClientID     *int64
	Status       constants.QuoteStatus
	ThermalSieve bool
	NetTotal     float64
	Tax10        float64
	Tax20        float64
	GrossTotal   float64
}

type QuoteRepository interface {
	// Insert skips quotes already stored under the same number or source hash.
	// inserted reports whether a new row was written.
	Insert(ctx context.Context, rec QuoteRecord) (id int64, inserted bool, err error)
	InsertSubAreas(ctx context.Context, quoteID int64, areas []entity.SubArea) (map[string]int64, error)
	InsertLineItems(ctx context.Context, quoteID int64, items []entity.LineItem, subAreaIDs map[string]int64) error
}

type quoteRepo struct {
	q       dialect.ExecQuerier
	dialect string
	logger  *slog.Logger
}

func NewQuoteRepository(q dialect.ExecQuerier, dialectName string, logger *slog.Logger) QuoteRepository {
	return &quoteRepo{q: q, dialect: dialectName, logger: logger}
}

func (r *quoteRepo) existing(ctx context.Context, doc *entity.QuoteDocument) (int64, bool, error) {
	pred := entsql.EQ("source_hash", doc.SourceHash)
	if n := doc.Number(); n != "" {
		pred = entsql.Or(entsql.EQ("document_number", n), pred)
	}
	query, args := entsql.Dialect(r.dialect).
		Select("id").From(entsql.Table("quotes")).
		Where(pred).
		Limit(1).
		Query()
	return queryID(ctx, r.q, query, args)
}

func (r *quoteRepo) Insert(ctx context.Context, rec QuoteRecord) (int64, bool, error) {
	doc := rec.Document
	if id, found, err := r.existing(ctx, doc); err != nil || found {
		if found {
			r.logger.Debug("quote already stored", "document_number", doc.Number(), "id", id)
		}
		return id, false, err
	}

	query, args := entsql.Dialect(r.dialect).
		Insert("quotes").
		Columns("document_number", "client_id", "site_address", "site_postal_code", "site_city",
			"total_area_m2", "issue_date", "expiry_date", "status",
			"net_total", "tax_10", "tax_20", "gross_total",
			"thermal_sieve", "source_path", "source_hash").
		Values(nullable(doc.DocumentNumber), nullable(rec.ClientID),
			nullable(doc.Site.Address), nullable(doc.Site.PostalCode), nullable(doc.Site.City),
			nullable(doc.Totals.TotalAreaSquareMeters), dateValue(doc.IssueDate), dateValue(doc.ExpiryDate),
			string(rec.Status),
			rec.NetTotal, rec.Tax10, rec.Tax20, rec.GrossTotal,
			rec.ThermalSieve, nullString(doc.SourcePath), doc.SourceHash).
		Query()
	if err := exec(ctx, r.q, query, args); err != nil {
		r.logger.Error("failed to insert quote", "document_number", doc.Number(), "source_path", doc.SourcePath, "error", err)
		return 0, false, err
	}

	id, _, err := r.existing(ctx, doc)
	return id, err == nil, err
}

func (r *quoteRepo) InsertSubAreas(ctx context.Context, quoteID int64, areas []entity.SubArea) (map[string]int64, error) {
	ids := make(map[string]int64, len(areas))
	for _, a := range areas {
		query, args := entsql.Dialect(r.dialect).
			Insert("sub_areas").
			Columns("quote_id", "name", "area_m2").
			Values(quoteID, a.Name, a.AreaSquareMeters).
			Query()
		if err := exec(ctx, r.q, query, args); err != nil {
			r.logger.Error("failed to insert sub-area", "quote_id", quoteID, "name", a.Name, "error", err)
			return nil, err
		}
		if _, seen := ids[a.Name]; seen {
			continue
		}
		query, args = entsql.Dialect(r.dialect).
			Select("id").From(entsql.Table("sub_areas")).
			Where(entsql.And(entsql.EQ("quote_id", quoteID), entsql.EQ("name", a.Name))).
			OrderBy("id").
			Limit(1).
			Query()
		id, _, err := queryID(ctx, r.q, query, args)
		if err != nil {
			return nil, err
		}
		ids[a.Name] = id
	}
	return ids, nil
}

func (r *quoteRepo) InsertLineItems(ctx context.Context, quoteID int64, items []entity.LineItem, subAreaIDs map[string]int64) error {
	if len(items) == 0 {
		return nil
	}
	b := entsql.Dialect(r.dialect).
		Insert("line_items").
		Columns("quote_id", "sub_area_id", "line_number", "title", "description", "category",
			"quantity", "unit", "unit_price_excl_tax", "tax_rate_percent", "total_excl_tax")
	for _, it := range items {
		var subAreaID any
		if it.SubAreaRef != nil {
			if id, ok := subAreaIDs[*it.SubAreaRef]; ok {
				subAreaID = id
			}
		}
		b.Values(quoteID, subAreaID, it.LineNumber, it.Title, nullString(it.Description), nullable(it.Category),
			it.Quantity, it.Unit, it.UnitPriceExclTax, it.TaxRatePercent, it.TotalExclTax)
	}
	query, args := b.Query()
	if err := exec(ctx, r.q, query, args); err != nil {
		r.logger.Error("failed to insert line items", "quote_id", quoteID, "count", len(items), "error", err)
		return err
	}
	return nil
}

func dateValue(d *entity.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
