package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_DSN", "MYSQL_DSN", "DATABASE_URL", "HTTP_PORT", "CORS_ORIGIN", "JWT_ACCESS_TTL_SECONDS"} {
		t.Setenv(k, "")
	}

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "@tcp(localhost:3306)/matchmaker")
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigin)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, time.Hour, cfg.Redis.LikesCountTTL)
}

func TestNew_PostgresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_NAME", "dating")

	cfg := New()

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "host=pg port=5432")
	assert.Contains(t, cfg.DB.DSN, "dbname=dating")
}

func TestNew_ExplicitDSNWins(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/app")

	cfg := New()

	assert.Equal(t, "postgres://u:p@db/app", cfg.DB.DSN)
}

func TestNew_ParsesListsAndDurations(t *testing.T) {
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example ,")
	t.Setenv("JWT_ACCESS_TTL_SECONDS", "60")
	t.Setenv("LIKES_COUNT_TTL_SECONDS", "not-a-number")

	cfg := New()

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigin)
	assert.Equal(t, time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, time.Hour, cfg.Redis.LikesCountTTL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.DB.Driver = "sqlite"
	require.Error(t, cfg.Validate())

	cfg.JWT.Secret = "s3cret"
	require.NoError(t, cfg.Validate())

	cfg.DB.Driver = "oracle"
	require.Error(t, cfg.Validate())
}
