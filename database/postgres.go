package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS collections (
	name    TEXT PRIMARY KEY,
	records JSONB NOT NULL
)`

// PostgresBackend keeps one JSONB row per collection.
type PostgresBackend struct {
	db *sql.DB
}

var _ Backend = (*PostgresBackend)(nil)

// OpenPostgres connects to url and creates the collections table if needed.
func OpenPostgres(ctx context.Context, url string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.Logger.WithFields(logrus.Fields{"module": "database", "method": "OpenPostgres"}).Info("connected to postgres")
	return &PostgresBackend{db: db}, nil
}

func (p *PostgresBackend) Read(ctx context.Context, name string, dest interface{}) error {
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT records FROM collections WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoDocument
	}
	if err != nil {
		return err
	}
	return decodeRecords(data, dest)
}

func (p *PostgresBackend) Write(ctx context.Context, name string, records interface{}) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO collections (name, records) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET records = EXCLUDED.records
	`, name, string(data))
	return err
}

func (p *PostgresBackend) Remove(ctx context.Context, name string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM collections WHERE name = $1`, name)
	return err
}

func (p *PostgresBackend) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresBackend) Close(ctx context.Context) error {
	return p.db.Close()
}
