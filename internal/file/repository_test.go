package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/abduss/docstore/internal/config"
	"github.com/abduss/docstore/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isUniqueViolation(tc.err))
		})
	}
}

// newTestRepository starts PostgreSQL in a container and applies the schema migrations.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	if testing.Short() || os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: set TEST_INTEGRATION and drop -short to run")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("docstore_test"),
		postgres.WithUsername("docstore"),
		postgres.WithPassword("test-p@ss"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config.PostgresConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "docstore",
		Password: "test-p@ss",
		Database: "docstore_test",
		SSLMode:  "disable",
	}

	require.NoError(t, storage.Migrate(cfg, zap.NewNop()))

	pool, err := storage.NewPostgresPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewRepository(pool)
}

func createRecord(t *testing.T, repo *Repository, name, contentType, description string, size int64, modified time.Time) Record {
	t.Helper()
	rec, err := repo.Create(context.Background(), Record{
		ID:           uuid.New(),
		Metadata:     Metadata{Name: name, ContentType: contentType, Size: size},
		Description:  description,
		LastModified: modified,
	})
	require.NoError(t, err)
	return rec
}

func names(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Name)
	}
	return out
}

func TestRepositoryAgainstPostgres(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	report := createRecord(t, repo, "report.pdf", "PDF Document", "quarterly numbers", 300, base)
	notes := createRecord(t, repo, "notes.txt", "Text Document", "Meeting REPORT draft", 100, base.Add(24*time.Hour))
	photo := createRecord(t, repo, "photo.png", "PNG Image", "", 200, base.Add(48*time.Hour))

	t.Run("duplicate name is ALREADY_EXISTS", func(t *testing.T) {
		_, err := repo.Create(ctx, Record{
			ID:           uuid.New(),
			Metadata:     Metadata{Name: "report.pdf", ContentType: "PDF Document"},
			LastModified: base,
		})
		require.ErrorIs(t, err, ErrNameExists)
		assert.Equal(t, KindNameExists, KindOf(err))

		renamed := photo
		renamed.Name = "notes.txt"
		_, err = repo.Update(ctx, renamed)
		require.ErrorIs(t, err, ErrNameExists)
	})

	t.Run("missing id is NOT_FOUND", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.New())
		require.ErrorIs(t, err, ErrFileNotFound)

		_, err = repo.Update(ctx, Record{ID: uuid.New(), Metadata: Metadata{Name: "ghost.txt"}, LastModified: base})
		require.ErrorIs(t, err, ErrFileNotFound)
		assert.Equal(t, KindNotFound, KindOf(err))

		_, err = repo.Delete(ctx, uuid.New())
		require.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("search matches any field case-insensitively", func(t *testing.T) {
		got, err := repo.Search(ctx, "report", DefaultSort)
		require.NoError(t, err)
		assert.Equal(t, []string{"notes.txt", "report.pdf"}, names(got))

		got, err = repo.Search(ctx, "png", DefaultSort)
		require.NoError(t, err)
		assert.Equal(t, []string{"photo.png"}, names(got))
	})

	t.Run("empty search matches every record", func(t *testing.T) {
		got, err := repo.Search(ctx, "", DefaultSort)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("sorted listing follows the requested order", func(t *testing.T) {
		bySize, err := ParseSort("size", "desc")
		require.NoError(t, err)
		got, err := repo.ListSorted(ctx, bySize)
		require.NoError(t, err)
		assert.Equal(t, []string{"report.pdf", "photo.png", "notes.txt"}, names(got))

		byModified, err := ParseSort("lastModified", "asc")
		require.NoError(t, err)
		got, err = repo.ListSorted(ctx, byModified)
		require.NoError(t, err)
		assert.Equal(t, []string{"report.pdf", "notes.txt", "photo.png"}, names(got))
	})

	t.Run("modified range is inclusive at both ends", func(t *testing.T) {
		got, err := repo.FindByModifiedRange(ctx, report.LastModified, notes.LastModified)
		require.NoError(t, err)
		assert.Equal(t, []string{"report.pdf", "notes.txt"}, names(got))

		got, err = repo.FindByModifiedRange(ctx, base.Add(-time.Hour), base.Add(-time.Minute))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("update and delete return the stored row", func(t *testing.T) {
		changed := notes
		changed.Name = "minutes.txt"
		changed.Size = 150
		changed.LastModified = notes.LastModified.Add(time.Minute)

		updated, err := repo.Update(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "minutes.txt", updated.Name)
		assert.Equal(t, int64(150), updated.Size)
		assert.Equal(t, "Text Document", updated.ContentType)

		deleted, err := repo.Delete(ctx, notes.ID)
		require.NoError(t, err)
		assert.Equal(t, "minutes.txt", deleted.Name)

		_, err = repo.GetByName(ctx, "minutes.txt")
		require.ErrorIs(t, err, ErrFileNotFound)
	})
}
