package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blockedby/newsletter-light/internal/models"
)

// UsersRepository reads the host users table.
type UsersRepository struct {
	pool *pgxpool.Pool
}

// NewUsersRepository creates a new users repository
func NewUsersRepository(pool *pgxpool.Pool) *UsersRepository {
	return &UsersRepository{pool: pool}
}

// ListSystemEmails returns the addresses of all users flagged to receive system mail.
func (r *UsersRepository) ListSystemEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email
		FROM users
		WHERE send_email = true
	`)
	if err != nil {
		return nil, fmt.Errorf("list system emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}

// ListActiveByIDs returns the non-blocked users among ids.
func (r *UsersRepository) ListActiveByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, username, name, email, send_email, block
		FROM users
		WHERE id = ANY($1) AND block = false
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.SendEmail, &u.Blocked); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// GetByID returns a single user or ErrNotFound.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, name, email, send_email, block
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.SendEmail, &u.Blocked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}
