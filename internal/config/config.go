package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultMaxUploadBytes = 100 * 1024 * 1024 // 100MB

// Config aggregates runtime configuration for the document store API.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	MinIO    MinIOConfig
	Files    FilesConfig
	Auth     AuthConfig
	Metrics  MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return p.connURL("postgres")
}

// MigrationURL returns the DSN in the form expected by the pgx/v5 migrate driver.
func (p PostgresConfig) MigrationURL() string {
	return p.connURL("pgx5")
}

// connURL escapes credentials so reserved characters survive the round trip.
func (p PostgresConfig) connURL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Database,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

// MinIOConfig carries MinIO connection and bucket information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
}

// FilesConfig bounds uploads and download links.
type FilesConfig struct {
	MaxUploadBytes int64
	PresignTTL     time.Duration
}

// AuthConfig groups API client authentication settings.
type AuthConfig struct {
	Enabled           bool
	AccessTokenSecret string
	AccessTokenTTL    time.Duration
	BcryptCost        int
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("DOCSTORE_API_HOST", "0.0.0.0"),
			Port:         getInt("DOCSTORE_API_PORT", 8080),
			ReadTimeout:  getDuration("DOCSTORE_API_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("DOCSTORE_API_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("DOCSTORE_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "docstore_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "docstore"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "docstore"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			Bucket:          getString("MINIO_BUCKET", "documents"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
		},
		Files: FilesConfig{
			MaxUploadBytes: getInt64("DOCSTORE_MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
			PresignTTL:     getDuration("DOCSTORE_PRESIGN_TTL", 15*time.Minute),
		},
		Auth: loadAuthConfig(),
		Metrics: MetricsConfig{
			PrometheusPath: getString("DOCSTORE_METRICS_PATH", "/metrics"),
		},
	}

	if cfg.Files.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("DOCSTORE_MAX_UPLOAD_BYTES must be positive, got %d", cfg.Files.MaxUploadBytes)
	}
	if cfg.Auth.Enabled && len(cfg.Auth.AccessTokenSecret) < 32 {
		return Config{}, fmt.Errorf("DOCSTORE_JWT_SECRET must be at least 32 bytes when auth is enabled")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func loadAuthConfig() AuthConfig {
	cost := getInt("DOCSTORE_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}

	return AuthConfig{
		Enabled:           getBool("DOCSTORE_AUTH_ENABLED", false),
		AccessTokenSecret: getString("DOCSTORE_JWT_SECRET", ""),
		AccessTokenTTL:    getDuration("DOCSTORE_AUTH_ACCESS_TOKEN_TTL", 15*time.Minute),
		BcryptCost:        cost,
	}
}
