package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoriesRepository reads content category titles.
type CategoriesRepository struct {
	pool *pgxpool.Pool
}

// NewCategoriesRepository creates a new categories repository
func NewCategoriesRepository(pool *pgxpool.Pool) *CategoriesRepository {
	return &CategoriesRepository{pool: pool}
}

// TitleByID returns the title of a category or ErrNotFound.
func (r *CategoriesRepository) TitleByID(ctx context.Context, id int64) (string, error) {
	var title string
	err := r.pool.QueryRow(ctx, `SELECT title FROM categories WHERE id = $1`, id).Scan(&title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get category title: %w", err)
	}
	return title, nil
}
