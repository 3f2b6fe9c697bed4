// Package postgres stores metadata documents as raw JSON rows, keyed by
// document ref. Teams that mount no shared filesystem use this backend.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nordstat/datadoc/internal/core/domain"
)

type Storage struct {
	db  *sql.DB
	now func() time.Time
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db, now: time.Now}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Storage) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent editor startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS metadata_documents (
	ref TEXT PRIMARY KEY,
	content BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *Storage) ReadDocument(ctx context.Context, ref string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT content
FROM metadata_documents
WHERE ref = $1
`, ref)

	var content []byte
	if err := row.Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "read document", fmt.Errorf("ref %s", ref))
		}
		return nil, domain.WrapError(domain.ErrStorageRead, "read document", err)
	}
	return content, nil
}

func (s *Storage) WriteDocument(ctx context.Context, ref string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO metadata_documents (ref, content, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (ref) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
`, ref, data, s.now().UTC())
	if err != nil {
		return domain.WrapError(domain.ErrStorageWrite, "write document", err)
	}
	return nil
}
