package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"storefront/internal/catalog/models"
	"storefront/pkg/platform/sentinel"
)

const itemColumns = "id, category, title, description, price, image, highlights, is_featured"

// PostgresStore persists catalog items in the catalog_items table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count catalog items: %w", err)
	}
	return n, nil
}

// InsertIfAbsent writes all items in one statement; rows whose id already
// exists are skipped by ON CONFLICT.
func (s *PostgresStore) InsertIfAbsent(ctx context.Context, items []*models.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	const cols = 8
	var (
		sb   strings.Builder
		args = make([]any, 0, len(items)*cols)
	)
	sb.WriteString("INSERT INTO catalog_items (" + itemColumns + ") VALUES ")
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < cols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*cols+c+1)
		}
		sb.WriteString(")")

		highlights := item.Highlights
		if highlights == nil {
			highlights = []string{}
		}
		var price sql.NullFloat64
		if item.Price != nil {
			price = sql.NullFloat64{Float64: *item.Price, Valid: true}
		}
		args = append(args, item.ID, item.Category, item.Title, item.Description,
			price, item.Image, pq.Array(highlights), item.IsFeatured)
	}
	sb.WriteString(" ON CONFLICT (id) DO NOTHING")

	res, err := s.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("insert catalog items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert catalog items: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Item, error) {
	return s.query(ctx, `SELECT `+itemColumns+` FROM catalog_items ORDER BY seq`)
}

func (s *PostgresStore) ListFeatured(ctx context.Context) ([]*models.Item, error) {
	return s.query(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE is_featured ORDER BY seq`)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find catalog item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	out := []*models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*models.Item, error) {
	var (
		item       models.Item
		price      sql.NullFloat64
		highlights pq.StringArray
	)
	if err := row.Scan(&item.ID, &item.Category, &item.Title, &item.Description,
		&price, &item.Image, &highlights, &item.IsFeatured); err != nil {
		return nil, err
	}
	if price.Valid {
		item.Price = models.Price(price.Float64)
	}
	item.Highlights = []string(highlights)
	if item.Highlights == nil {
		item.Highlights = []string{}
	}
	return &item, nil
}
