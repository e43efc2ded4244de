package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"stockbook/internal/inventory"
	"stockbook/internal/store"
)

// DefaultRetention is how many saved snapshots are kept before old rows are pruned.
const DefaultRetention = 50

const schema = `
CREATE TABLE IF NOT EXISTS inventory_snapshots (
	id BIGSERIAL PRIMARY KEY,
	payload JSONB NOT NULL,
	item_count INTEGER NOT NULL,
	sale_count INTEGER NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	db        *sql.DB
	retention int
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, retention: DefaultRetention}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SetRetention changes how many snapshots survive a save. Zero or less keeps all.
func (s *Store) SetRetention(n int) {
	s.retention = n
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return describe("create schema", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (inventory.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload
		FROM inventory_snapshots
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.Snapshot{}, store.ErrNotFound
		}
		return inventory.Snapshot{}, describe("load snapshot", err)
	}

	var snap inventory.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return inventory.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, snap inventory.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_snapshots (payload, item_count, sale_count, saved_at)
		VALUES ($1, $2, $3, now())
	`, string(payload), len(snap.Items), len(snap.Sales)); err != nil {
		return describe("insert snapshot", err)
	}

	if s.retention > 0 {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM inventory_snapshots
			WHERE id NOT IN (
				SELECT id FROM inventory_snapshots ORDER BY id DESC LIMIT $1
			)
		`, s.retention); err != nil {
			return describe("prune snapshots", err)
		}
	}

	return tx.Commit()
}

// Count is the number of snapshots currently stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM inventory_snapshots`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func describe(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %s (%s): %w", op, pgErr.Message, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
