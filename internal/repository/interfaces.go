package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/momentumapp/momentum/pkg/entity"
)

type StateRepositoryI interface {
	// Reads the persisted state blob. Absent, unreadable or malformed storage
	// yields the default state; Load never fails from the caller's view.
	Load(ctx context.Context) *entity.RootState
	// Serializes and writes the full state. Callers treat a returned error as
	// a swallowed no-op write: in-memory state stays authoritative.
	Save(ctx context.Context, state *entity.RootState) error
	// Clears storage and returns the default state.
	Reset(ctx context.Context) *entity.RootState
}

type CatalogSourceI interface {
	// Fetches the read-only resource list from the external source.
	Fetch(ctx context.Context) ([]entity.Resource, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
