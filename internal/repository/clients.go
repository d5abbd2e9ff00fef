package repository

import (
	"context"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/quotes-tracker/constants"
)

// ClientRecord is a client row. Name is the natural key.
type ClientRecord struct {
	Name       string
	FirstName  string
	Address    string
	PostalCode string
	City       string
	ClientType constants.ClientType
	Email      string
	Phone      string
	ExternalID *int64
}

type ClientRepository interface {
	// Upsert inserts the client or refreshes the existing row with the same name.
	Upsert(ctx context.Context, c ClientRecord) (int64, error)
	IDByName(ctx context.Context, name string) (int64, bool, error)
	IDByEmail(ctx context.Context, email string) (int64, bool, error)
}

type clientRepo struct {
	q       dialect.ExecQuerier
	dialect string
	logger  *slog.Logger
}

func NewClientRepository(q dialect.ExecQuerier, dialectName string, logger *slog.Logger) ClientRepository {
	return &clientRepo{q: q, dialect: dialectName, logger: logger}
}

func (r *clientRepo) Upsert(ctx context.Context, c ClientRecord) (int64, error) {
	clientType := c.ClientType
	if clientType == "" {
		clientType = constants.ClientTypeIndividual
	}
	var syncedAt any
	if c.ExternalID != nil {
		syncedAt = time.Now().UTC()
	}

	query, args := entsql.Dialect(r.dialect).
		Insert("clients").
		Columns("name", "first_name", "address", "postal_code", "city", "client_type", "email", "phone", "external_id", "synced_at").
		Values(c.Name, nullString(c.FirstName), nullString(c.Address), nullString(c.PostalCode), nullString(c.City),
			string(clientType), nullString(c.Email), nullString(c.Phone), nullable(c.ExternalID), syncedAt).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("address")
				u.SetExcluded("postal_code")
				u.SetExcluded("city")
				u.Set("email", entsql.Expr("COALESCE(excluded.email, clients.email)"))
				u.Set("phone", entsql.Expr("COALESCE(excluded.phone, clients.phone)"))
				u.Set("external_id", entsql.Expr("COALESCE(excluded.external_id, clients.external_id)"))
				u.Set("synced_at", entsql.Expr("COALESCE(excluded.synced_at, clients.synced_at)"))
			}),
		).
		Query()
	if err := exec(ctx, r.q, query, args); err != nil {
		r.logger.Error("failed to upsert client", "name", c.Name, "error", err)
		return 0, err
	}

	id, _, err := r.IDByName(ctx, c.Name)
	return id, err
}

func (r *clientRepo) IDByName(ctx context.Context, name string) (int64, bool, error) {
	query, args := entsql.Dialect(r.dialect).
		Select("id").From(entsql.Table("clients")).
		Where(entsql.EQ("name", name)).
		Limit(1).
		Query()
	return queryID(ctx, r.q, query, args)
}

func (r *clientRepo) IDByEmail(ctx context.Context, email string) (int64, bool, error) {
	query, args := entsql.Dialect(r.dialect).
		Select("id").From(entsql.Table("clients")).
		Where(entsql.EQ("email", email)).
		OrderBy("id").
		Limit(1).
		Query()
	return queryID(ctx, r.q, query, args)
}
