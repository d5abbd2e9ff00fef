package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/quotes-tracker/constants"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// PaymentRecord is a shop order stored as a payment.
type PaymentRecord struct {
	ClientID        *int64
	Amount          float64
	Method          constants.PaymentMethod
	Status          constants.PaymentStatus
	PaidOn          *entity.Date
	TransactionRef  string
	ExternalOrderID int64
}

type PaymentRepository interface {
	// Insert does nothing when the external order id is already stored.
	Insert(ctx context.Context, p PaymentRecord) (inserted bool, err error)
}

type paymentRepo struct {
	q       dialect.ExecQuerier
	dialect string
	logger  *slog.Logger
}

func NewPaymentRepository(q dialect.ExecQuerier, dialectName string, logger *slog.Logger) PaymentRepository {
	return &paymentRepo{q: q, dialect: dialectName, logger: logger}
}

func (r *paymentRepo) Insert(ctx context.Context, p PaymentRecord) (bool, error) {
	query, args := entsql.Dialect(r.dialect).
		Insert("payments").
		Columns("client_id", "amount", "method", "status", "paid_on", "transaction_ref", "external_order_id").
		Values(nullable(p.ClientID), p.Amount, string(p.Method), string(p.Status),
			dateValue(p.PaidOn), nullString(p.TransactionRef), p.ExternalOrderID).
		OnConflict(entsql.ConflictColumns("external_order_id"), entsql.DoNothing()).
		Query()

	var res sql.Result
	if err := r.q.Exec(ctx, query, args, &res); err != nil {
		r.logger.Error("failed to insert payment", "external_order_id", p.ExternalOrderID, "error", err)
		return false, dbError("insert payment", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbError("rows affected", err)
	}
	return n > 0, nil
}
