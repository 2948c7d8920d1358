package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresDocumentStore keeps the training documents in a single JSONB
// table. One row per training day, keyed by the unix timestamp.
type PostgresDocumentStore struct {
	pool *pgxpool.Pool
}

func NewPostgresDocumentStore(pool *pgxpool.Pool) *PostgresDocumentStore {
	return &PostgresDocumentStore{pool: pool}
}

// FindByDate returns the document stored for the given timestamp.
func (s *PostgresDocumentStore) FindByDate(ctx context.Context, date int64) (*Document, error) {
	query := `
		SELECT doc, version
		FROM trainings
		WHERE date = $1
	`

	doc := Document{Date: date}
	err := s.pool.QueryRow(ctx, query, date).Scan(&doc.Data, &doc.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("find training %d: %w", date, err)
	}

	return &doc, nil
}

// FindAll returns every stored document ordered by timestamp.
func (s *PostgresDocumentStore) FindAll(ctx context.Context) ([]Document, error) {
	query := `
		SELECT date, doc, version
		FROM trainings
		ORDER BY date
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find all trainings: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.Date, &doc.Data, &doc.Version); err != nil {
			return nil, fmt.Errorf("scan training document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training documents: %w", err)
	}

	return docs, nil
}

// Insert stores a new document at version 1.
func (s *PostgresDocumentStore) Insert(ctx context.Context, date int64, data []byte) error {
	query := `
		INSERT INTO trainings (date, doc, version)
		VALUES ($1, $2, 1)
	`

	if _, err := s.pool.Exec(ctx, query, date, data); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDocumentExists
		}
		return fmt.Errorf("insert training %d: %w", date, err)
	}

	return nil
}

// Replace overwrites the document only if it is still at the expected
// version. A concurrent writer bumps the version and this call reports
// ErrVersionConflict so the caller can re-read and retry.
func (s *PostgresDocumentStore) Replace(ctx context.Context, date int64, data []byte, expectedVersion int64) error {
	query := `
		UPDATE trainings
		SET doc = $2, version = version + 1
		WHERE date = $1 AND version = $3
	`

	tag, err := s.pool.Exec(ctx, query, date, data, expectedVersion)
	if err != nil {
		return fmt.Errorf("replace training %d: %w", date, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a lost race from a vanished document.
	var exists bool
	err = s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM trainings WHERE date = $1)`, date).Scan(&exists)
	if err != nil {
		return fmt.Errorf("replace training %d: %w", date, err)
	}
	if !exists {
		return ErrDocumentNotFound
	}
	return ErrVersionConflict
}

// Drop deletes the whole collection. Destructive and irreversible.
func (s *PostgresDocumentStore) Drop(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE trainings`); err != nil {
		return fmt.Errorf("drop trainings: %w", err)
	}
	return nil
}
