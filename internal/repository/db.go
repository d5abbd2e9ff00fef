package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
)

// DB is an open store: an ent SQL driver plus, for Postgres, the pgx pool behind it.
type DB struct {
	drv    *entsql.Driver
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open creates a pgx pool and wraps it for the ent SQL driver.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "driver", dialect.Postgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "parse dsn", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "quotes-tracker"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.StatementTimeout.Milliseconds())
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "connect", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}

	// Wrap pool as *sql.DB for ent
	db := stdlib.OpenDBFromPool(pool)
	logger.Info("successfully connected to database")
	return &DB{drv: entsql.OpenDB(dialect.Postgres, db), pool: pool, logger: logger}, nil
}

// OpenSQLite opens a local SQLite file and creates the tables when missing.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "driver", dialect.SQLite, "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "open sqlite", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, common.NewAppError(common.CodeDatabase, "bootstrap sqlite schema", fmt.Errorf("%w: %v", common.ErrDatabase, err))
		}
	}
	logger.Info("successfully connected to database")
	return &DB{drv: entsql.OpenDB(dialect.SQLite, db), logger: logger}, nil
}

// Dialect is the ent dialect name of the underlying database.
func (d *DB) Dialect() string {
	return d.drv.Dialect()
}

// Close closes the database connections gracefully
func (d *DB) Close() {
	d.logger.Info("closing database connections")
	if err := d.drv.Close(); err != nil {
		d.logger.Error("failed to close sql driver", "error", err)
	}
	if d.pool != nil {
		d.pool.Close()
	}
	d.logger.Info("database connections closed")
}

// HealthCheck pings the database to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	d.logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var err error
	if d.pool != nil {
		err = d.pool.Ping(ctx)
	} else {
		err = d.drv.DB().PingContext(ctx)
	}
	if err != nil {
		d.logger.Error("database ping failed", "error", err)
		return common.NewAppError(common.CodeDatabase, "ping", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	d.logger.Debug("database ping successful")
	return nil
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Clients  ClientRepository
	Quotes   QuoteRepository
	Payments PaymentRepository
}

// Repos returns repositories running outside a transaction.
func (d *DB) Repos() *Repositories {
	return d.bind(d.drv)
}

func (d *DB) bind(q dialect.ExecQuerier) *Repositories {
	name := d.drv.Dialect()
	return &Repositories{
		Clients:  NewClientRepository(q, name, d.logger),
		Quotes:   NewQuoteRepository(q, name, d.logger),
		Payments: NewPaymentRepository(q, name, d.logger),
	}
}

// InTx runs fn inside one transaction. Any error, or a panic, rolls it back.
func (d *DB) InTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) (err error) {
	tx, err := d.drv.Tx(ctx)
	if err != nil {
		return common.NewAppError(common.CodeDatabase, "begin transaction", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, d.bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.logger.Error("failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return common.NewAppError(common.CodeDatabase, "commit transaction", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	return nil
}
