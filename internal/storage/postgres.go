package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourname/healthtrack/internal"
)

// PostgresStore persists keys in a single kv_entries table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(dsn string, logger internal.Logger) (*PostgresStore, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("storage: failed to connect to postgres: %v", err)
		return nil, err
	}
	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS kv_entries (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	if err != nil {
		logger.Errorf("storage: failed to ensure kv_entries table: %v", err)
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	row := p.pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		p.logger.Errorf("storage: failed to read key %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO kv_entries (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		p.logger.Errorf("storage: failed to write key %s: %v", key, err)
		return err
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	if err != nil {
		p.logger.Errorf("storage: failed to delete key %s: %v", key, err)
		return err
	}
	return nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

var _ KVStore = (*PostgresStore)(nil)
