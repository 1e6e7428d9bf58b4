package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/contact/models"
)

// PostgresStore appends submissions to the contact_submissions table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, sub *models.Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (id, name, email, message, created_at) VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.Name, sub.Email, sub.Message, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contact submissions: %w", err)
	}
	return n, nil
}
