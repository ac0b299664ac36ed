package file

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

const repoTimeout = 5 * time.Second

const recordColumns = `id, name, content_type, size, description, last_modified`

// Repository stores file metadata in PostgreSQL. Content bytes live in the object store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new file repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a record. A taken name yields ErrNameExists.
func (r *Repository) Create(ctx context.Context, rec Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO files (id, name, content_type, size, description, last_modified)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + recordColumns + `;`

	stored, err := scanRecord(r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.Name,
		rec.ContentType,
		rec.Size,
		rec.Description,
		rec.LastModified,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Record{}, ErrNameExists
		}
		return Record{}, fmt.Errorf("create file metadata: %w", err)
	}
	return stored, nil
}

// Get fetches a record by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	rec, err := scanRecord(r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM files WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrFileNotFound
		}
		return Record{}, fmt.Errorf("get file metadata: %w", err)
	}
	return rec, nil
}

// GetByName fetches a record by its unique name.
func (r *Repository) GetByName(ctx context.Context, name string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	rec, err := scanRecord(r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM files WHERE name = $1;`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrFileNotFound
		}
		return Record{}, fmt.Errorf("get file metadata by name: %w", err)
	}
	return rec, nil
}

// Update overwrites the mutable columns of an existing record.
func (r *Repository) Update(ctx context.Context, rec Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
UPDATE files
SET name = $2, size = $3, description = $4, last_modified = $5
WHERE id = $1
RETURNING ` + recordColumns + `;`

	stored, err := scanRecord(r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.Name,
		rec.Size,
		rec.Description,
		rec.LastModified,
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return Record{}, ErrFileNotFound
		case isUniqueViolation(err):
			return Record{}, ErrNameExists
		}
		return Record{}, fmt.Errorf("update file metadata: %w", err)
	}
	return stored, nil
}

// Delete removes a record and returns what was deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	rec, err := scanRecord(r.pool.QueryRow(ctx, `DELETE FROM files WHERE id = $1 RETURNING `+recordColumns+`;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrFileNotFound
		}
		return Record{}, fmt.Errorf("delete file metadata: %w", err)
	}
	return rec, nil
}

// List returns every record in insertion order.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	return r.query(ctx, "list files", `SELECT `+recordColumns+` FROM files ORDER BY created_at, id;`)
}

// ListSorted returns every record in the requested order.
func (r *Repository) ListSorted(ctx context.Context, sort Sort) ([]Record, error) {
	return r.query(ctx, "list sorted files", `SELECT `+recordColumns+` FROM files ORDER BY `+sort.ToSQL()+`;`)
}

// Search returns records whose name, content type or description contains the substring,
// compared case-insensitively. An empty substring matches every record.
func (r *Repository) Search(ctx context.Context, substring string, sort Sort) ([]Record, error) {
	query := `
SELECT ` + recordColumns + `
FROM files
WHERE strpos(lower(name), lower($1)) > 0
   OR strpos(lower(content_type), lower($1)) > 0
   OR strpos(lower(description), lower($1)) > 0
ORDER BY ` + sort.ToSQL() + `;`

	return r.query(ctx, "search files", query, substring)
}

// FindByModifiedRange returns records with start <= last_modified <= end.
func (r *Repository) FindByModifiedRange(ctx context.Context, start, end time.Time) ([]Record, error) {
	query := `
SELECT ` + recordColumns + `
FROM files
WHERE last_modified BETWEEN $1 AND $2
ORDER BY last_modified, id;`

	return r.query(ctx, "find files by modified range", query, start, end)
}

func (r *Repository) query(ctx context.Context, op, query string, args ...any) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file metadata: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.ContentType,
		&rec.Size,
		&rec.Description,
		&rec.LastModified,
	)
	return rec, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
