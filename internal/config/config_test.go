package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(100*1024*1024), cfg.Files.MaxUploadBytes)
	assert.Equal(t, 15*time.Minute, cfg.Files.PresignTTL)
	assert.Equal(t, "/metrics", cfg.Metrics.PrometheusPath)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DOCSTORE_API_PORT", "9090")
	t.Setenv("DOCSTORE_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("MINIO_USE_SSL", "yes")
	t.Setenv("POSTGRES_SSL_MODE", "REQUIRE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, int64(2048), cfg.Files.MaxUploadBytes)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "require", cfg.Postgres.SSLMode)
}

func TestLoadRejectsShortSecretWhenAuthEnabled(t *testing.T) {
	t.Setenv("DOCSTORE_AUTH_ENABLED", "true")
	t.Setenv("DOCSTORE_JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
}

func TestPostgresURLs(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "docs", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p@db:5432/docs?sslmode=disable", p.DSN())
	assert.Equal(t, "pgx5://u:p@db:5432/docs?sslmode=disable", p.MigrationURL())
}

func TestPostgresURLsEscapeCredentials(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "app@docs", Password: "p@ss/w?rd:1#", Database: "docs", SSLMode: "disable"}

	for _, raw := range []string{p.DSN(), p.MigrationURL()} {
		u, err := url.Parse(raw)
		require.NoError(t, err)

		assert.Equal(t, "app@docs", u.User.Username())
		password, ok := u.User.Password()
		assert.True(t, ok)
		assert.Equal(t, "p@ss/w?rd:1#", password)
		assert.Equal(t, "db:5432", u.Host)
		assert.Equal(t, "/docs", u.Path)
		assert.Equal(t, "disable", u.Query().Get("sslmode"))
	}
}
