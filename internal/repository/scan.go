package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
)

// queryID runs a single-column id query. found is false when no row matches.
func queryID(ctx context.Context, q dialect.ExecQuerier, query string, args []any) (id int64, found bool, err error) {
	rows := &entsql.Rows{}
	if err := q.Query(ctx, query, args, rows); err != nil {
		return 0, false, dbError("query", err)
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, false, dbError("scan id", err)
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return 0, false, dbError("iterate rows", err)
	}
	return id, found, nil
}

func exec(ctx context.Context, q dialect.ExecQuerier, query string, args []any) error {
	if err := q.Exec(ctx, query, args, nil); err != nil {
		return dbError("exec", err)
	}
	return nil
}

func dbError(op string, err error) error {
	return common.NewAppError(common.CodeDatabase, op, fmt.Errorf("%w: %v", common.ErrDatabase, err))
}

// nullable turns nil pointers into SQL NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
