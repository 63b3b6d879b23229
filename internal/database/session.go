package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the query surface shared by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Acquirer hands out pooled connections. *pgxpool.Pool satisfies it.
type Acquirer interface {
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying q as the request session.
func WithSession(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, sessionKey{}, q)
}

// SessionFromContext returns the request session stored by WithSession.
func SessionFromContext(ctx context.Context) (Querier, bool) {
	q, ok := ctx.Value(sessionKey{}).(Querier)
	return q, ok && q != nil
}

// QuerierFor returns the request session in ctx, falling back to fallback
// for work that runs outside a request.
func QuerierFor(ctx context.Context, fallback Querier) Querier {
	if q, ok := SessionFromContext(ctx); ok {
		return q
	}
	return fallback
}
