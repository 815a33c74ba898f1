// Package sqlconv adapts database/sql (and the three backing drivers) to
// the engine's narrow QueryFn capability, plus the per-dialect value
// converter that normalizes boolean/timestamp representations for SQLite.
package sqlconv

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/quillorm/quill/dialect"
)

// Result is the untyped {rows, rowCount} shape QueryFn returns.
type Result struct {
	Rows     []map[string]any
	RowCount int64
}

// QueryFn is the engine's sole database capability: run SQL text with
// positional params, get rows and an affected-row count back. Any driver
// implementing this shape — a pooled native client, an embedded database,
// an in-memory fake for tests — is acceptable (spec §6.5).
type QueryFn func(ctx context.Context, text string, params []any) (Result, error)

// PoolConfig mirrors database/sql's own pool-tuning surface.
type PoolConfig struct {
	Max               int
	IdleTimeout       time.Duration
	ConnectionTimeout time.Duration
}

// Adapter wraps a *sql.DB with dialect awareness and exposes a QueryFn,
// plus Close and IsHealthy.
type Adapter struct {
	db      *sql.DB
	dialect dialect.Dialect
	log     func(...any)
}

// Open opens driverName (one of "postgres", "sqlite", "mysql") against
// source and returns an Adapter bound to the matching Dialect.
func Open(driverName, source string, pool PoolConfig, log func(...any)) (*Adapter, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, fmt.Errorf("sqlconv: open: %w", err)
	}
	return NewAdapter(db, driverName, pool, log), nil
}

// NewAdapter wraps an already-open *sql.DB (the driverHandle path of
// createDb).
func NewAdapter(db *sql.DB, dialectName string, pool PoolConfig, log func(...any)) *Adapter {
	if pool.Max > 0 {
		db.SetMaxOpenConns(pool.Max)
	}
	if pool.IdleTimeout > 0 {
		db.SetConnMaxIdleTime(pool.IdleTimeout)
	}
	if log == nil {
		log = func(...any) {}
	}
	return &Adapter{db: db, dialect: dialect.Get(dialectName), log: log}
}

// DB returns the underlying *sql.DB, for callers that need direct access
// (e.g. to start a transaction).
func (a *Adapter) DB() *sql.DB { return a.db }

// Dialect returns the Dialect this adapter was opened against.
func (a *Adapter) Dialect() dialect.Dialect { return a.dialect }

// QueryFn returns the QueryFn closure the CRUD engine drives.
func (a *Adapter) QueryFn() QueryFn {
	return func(ctx context.Context, text string, params []any) (Result, error) {
		return a.run(ctx, a.db, text, params)
	}
}

func (a *Adapter) run(ctx context.Context, ex execQuerier, text string, params []any) (Result, error) {
	start := time.Now()
	defer func() {
		if d := time.Since(start); d > slowQueryThreshold {
			a.log("sqlconv: slow query", d, text)
		}
	}()

	if returnsRows(text) {
		rows, err := ex.QueryContext(ctx, text, params...)
		if err != nil {
			return Result{}, err
		}
		defer rows.Close()
		out, err := scanRows(rows)
		if err != nil {
			return Result{}, err
		}
		return Result{Rows: out, RowCount: int64(len(out))}, nil
	}

	res, err := ex.ExecContext(ctx, text, params...)
	if err != nil {
		return Result{}, err
	}
	n, _ := res.RowsAffected()
	return Result{RowCount: n}, nil
}

// returnsRows reports whether text is a statement the engine must read
// rows back from: a plain SELECT, or any statement carrying a RETURNING
// clause (Postgres/SQLite INSERT/UPDATE/DELETE ... RETURNING).
func returnsRows(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	return strings.HasPrefix(upper, "SELECT") || strings.Contains(upper, "RETURNING")
}

// execQuerier is the narrow subset of *sql.DB / *sql.Tx this package uses.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const slowQueryThreshold = 500 * time.Millisecond

// Close releases the connection pool.
func (a *Adapter) Close() error { return a.db.Close() }

// IsHealthy issues a cheap round trip (`SELECT 1`) through the driver.
func (a *Adapter) IsHealthy(ctx context.Context) bool {
	var one int
	err := a.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	return err == nil
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
