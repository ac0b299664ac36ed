package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 5 * time.Second

// Repository provides database access for API clients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateClient persists a new client record.
func (r *Repository) CreateClient(ctx context.Context, name, secretHash string) (Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
INSERT INTO api_clients (name, secret_hash)
VALUES ($1, $2)
RETURNING id, name, secret_hash, created_at, last_used_at;`

	client, err := scanClient(r.pool.QueryRow(ctx, query, name, secretHash))
	if err != nil {
		if isUniqueViolation(err) {
			return Client{}, ErrClientExists
		}
		return Client{}, fmt.Errorf("scan client: %w", err)
	}

	return client, nil
}

// FindClientByID fetches a client by id.
func (r *Repository) FindClientByID(ctx context.Context, id uuid.UUID) (Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
SELECT id, name, secret_hash, created_at, last_used_at
FROM api_clients
WHERE id = $1;`

	client, err := scanClient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrClientNotFound
		}
		return Client{}, fmt.Errorf("find client: %w", err)
	}

	return client, nil
}

// TouchClient records the time a client last obtained a token.
func (r *Repository) TouchClient(ctx context.Context, id uuid.UUID, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `UPDATE api_clients SET last_used_at = $2 WHERE id = $1;`, id, at); err != nil {
		return fmt.Errorf("touch client: %w", err)
	}

	return nil
}

func scanClient(row pgx.Row) (Client, error) {
	var client Client
	err := row.Scan(&client.ID, &client.Name, &client.SecretHash, &client.CreatedAt, &client.LastUsedAt)
	return client, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
