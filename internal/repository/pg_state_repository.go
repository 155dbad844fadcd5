package repository

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bytedance/sonic"
	"github.com/momentumapp/momentum/pkg/cleanup"
	"github.com/momentumapp/momentum/pkg/entity"
)

// PGStateRepository keeps the same one-blob contract as the file backend but
// stores the blob in a single jsonb row, for deployments that already run
// postgres. Row id is fixed: there is exactly one state per installation.
type PGStateRepository struct {
	conn PgConnection
}

func NewPGStateRepo(cfg DBConfig) *PGStateRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for stateRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for stateRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	repo := &PGStateRepository{
		conn: pool,
	}
	if err := repo.ensureTable(context.Background()); err != nil {
		log.Fatal("preparing app_state table error: " + err.Error())
	}
	return repo
}

func NewPGStateRepoWithConn(conn PgConnection) *PGStateRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for stateRepo: " + err.Error())
	}
	return &PGStateRepository{
		conn: conn,
	}
}

func (pr *PGStateRepository) ensureTable(ctx context.Context) error {
	_, err := pr.conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS app_state (
		id smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		payload jsonb NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT NOW()
	);`)
	return err
}

func (pr *PGStateRepository) Load(ctx context.Context) *entity.RootState {
	var raw []byte
	row := pr.conn.QueryRow(ctx, `SELECT payload FROM app_state WHERE id = 1;`)
	if err := row.Scan(&raw); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("loading state row error, starting from defaults", slog.String("error", err.Error()))
		}
		return entity.DefaultState()
	}
	var state entity.RootState
	if err := sonic.Unmarshal(raw, &state); err != nil {
		slog.Warn("state payload corrupt, starting from defaults", slog.String("error", err.Error()))
		return entity.DefaultState()
	}
	state.Normalize()
	if !state.Valid() {
		slog.Warn("state payload has unrecognized shape, starting from defaults")
		return entity.DefaultState()
	}
	return &state
}

func (pr *PGStateRepository) Save(ctx context.Context, state *entity.RootState) error {
	raw, err := sonic.Marshal(state)
	if err != nil {
		return errors.New("encoding state error: " + err.Error())
	}
	_, err = pr.conn.Exec(ctx, `INSERT INTO app_state (id, payload, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW();`, raw)
	if err != nil {
		return errors.New("writing state row error: " + err.Error())
	}
	return nil
}

func (pr *PGStateRepository) Reset(ctx context.Context) *entity.RootState {
	_, err := pr.conn.Exec(ctx, `DELETE FROM app_state WHERE id = 1;`)
	if err != nil {
		slog.Warn("clearing state row error", slog.String("error", err.Error()))
	}
	return entity.DefaultState()
}
