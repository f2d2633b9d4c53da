package jaegerdb

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const defaultOpTimeout = 5 * time.Second

// dbtx is what both the pool and an open transaction can do.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Options struct {
	URL       string
	MaxConns  int32
	OpTimeout time.Duration
}

// DB is the Postgres Gateway. Every statement runs under OpTimeout.
type DB struct {
	pool    *pgxpool.Pool
	conn    dbtx
	inTx    bool
	timeout time.Duration
	log     *zap.Logger
}

var _ Gateway = (*DB)(nil)

func ConnectJaegerDB(ctx context.Context, opts Options, log *zap.Logger) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing DB_URL: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	timeout := opts.OpTimeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to establish the connection to the DB: %w", err)
	}
	db := &DB{pool: pool, conn: pool, timeout: timeout, log: log}
	if err := db.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach the DB: %w", err)
	}
	log.Info("Connection has been established with the DB",
		zap.String("host", cfg.ConnConfig.Host),
		zap.String("database", cfg.ConnConfig.Database),
		zap.Int32("max_conns", cfg.MaxConns))
	return db, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return db.pool.Ping(ctx)
}

func (db *DB) Users() UserRepository               { return &userStore{db: db} }
func (db *DB) Companies() CompanyRepository        { return &companyStore{db: db} }
func (db *DB) Applications() ApplicationRepository { return &applicationStore{db: db} }
func (db *DB) Rounds() RoundRepository             { return &roundStore{db: db} }

// InTx runs fn in a single transaction, committing when fn returns nil.
// Nested calls reuse the outer transaction.
func (db *DB) InTx(ctx context.Context, fn func(tx Gateway) error) error {
	if db.inTx {
		return fn(db)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*db.timeout)
	defer cancel()

	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		return fn(&DB{pool: db.pool, conn: tx, inTx: true, timeout: db.timeout, log: db.log})
	})
	if err != nil {
		db.log.Debug("transaction rolled back", zap.Error(err))
		return mapError("jaegerdb.InTx", err)
	}
	return nil
}

func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.timeout)
}

func queryAll[T any](ctx context.Context, db *DB, op string, b sq.Sqlizer) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, mapError(op, err)
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapError(op, err)
	}
	return items, nil
}

func queryOne[T any](ctx context.Context, db *DB, op string, b sq.Sqlizer) (T, error) {
	var zero T
	query, args, err := b.ToSql()
	if err != nil {
		return zero, mapError(op, err)
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return zero, mapError(op, err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, mapError(op, err)
	}
	return item, nil
}

// queryScalar scans a single-column, single-row result into dest.
func queryScalar(ctx context.Context, db *DB, op string, b sq.Sqlizer, dest any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return mapError(op, err)
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return mapError(op, db.conn.QueryRow(ctx, query, args...).Scan(dest))
}

// exec returns the number of affected rows.
func exec(ctx context.Context, db *DB, op string, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, mapError(op, err)
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapError(op, err)
	}
	return tag.RowsAffected(), nil
}

func exists(ctx context.Context, db *DB, op string, b sq.SelectBuilder) (bool, error) {
	var ok bool
	if err := queryScalar(ctx, db, op, existsQuery(b), &ok); err != nil {
		return false, err
	}
	return ok, nil
}
