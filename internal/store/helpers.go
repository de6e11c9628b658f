// Package store persists raw session logs and classified events. A Postgres
// implementation backs production; an in-memory one serves DSN-less runs and
// tests.
package store

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bio-agent/go-bridge-v2/pkg/util"
)

// BaseStore is the embedded base of every Postgres-backed store.
type BaseStore struct{ pool *pgxpool.Pool }

// NewBaseStore wraps a connection pool.
func NewBaseStore(pool *pgxpool.Pool) BaseStore { return BaseStore{pool: pool} }

// Pool exposes the pool to embedding stores.
func (b BaseStore) Pool() *pgxpool.Pool { return b.pool }

// QueryBuilder accumulates WHERE conditions with positional parameters.
type QueryBuilder struct {
	where  []string
	params []any
	n      int // $N counter
}

// NewQueryBuilder creates an empty builder.
func NewQueryBuilder() *QueryBuilder { return &QueryBuilder{} }

// Eq adds an equality condition; empty values are skipped.
func (q *QueryBuilder) Eq(col, val string) *QueryBuilder {
	if val == "" {
		return q
	}
	q.n++
	q.where = append(q.where, fmt.Sprintf("%s = $%d", col, q.n))
	q.params = append(q.params, val)
	return q
}

// Build assembles baseSQL + WHERE + ORDER BY + LIMIT.
func (q *QueryBuilder) Build(baseSQL, orderBy string, limit int) (string, []any) {
	limit = util.ClampInt(limit, 1, 2000)
	sql := baseSQL
	if len(q.where) > 0 {
		sql += " WHERE " + strings.Join(q.where, " AND ")
	}
	if orderBy != "" {
		sql += " ORDER BY " + orderBy
	}
	q.n++
	sql += fmt.Sprintf(" LIMIT $%d", q.n)
	q.params = append(q.params, limit)
	return sql, q.params
}

// collectRows scans pgx rows into a struct slice by db tag.
func collectRows[T any](rows pgx.Rows) ([]T, error) {
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}
