package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "quotedesk", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "QT", cfg.Sequence.Quote.Prefix)
		assert.Equal(t, 6, cfg.Sequence.Quote.Width)
		assert.Equal(t, "NV", cfg.Sequence.SalesNote.Prefix)
		assert.Equal(t, "-", cfg.Sequence.Separator)
		assert.False(t, cfg.Sequence.SalesNoteFolioOnConfirm)
		assert.Equal(t, 15, cfg.Quote.DefaultValidityDays)
		assert.Equal(t, 30*time.Second, cfg.Receivable.CacheTTL)
		assert.False(t, cfg.Notification.Enabled)
	})

	t.Run("loads values from environment variables with QD prefix", func(t *testing.T) {
		t.Setenv("QD_APP_PORT", "9000")
		t.Setenv("QD_DATABASE_HOST", "db.internal")
		t.Setenv("QD_DATABASE_PORT", "5433")
		t.Setenv("QD_SEQUENCE_SALES_NOTE_FOLIO_ON_CONFIRM", "true")
		t.Setenv("QD_SEQUENCE_FORMATS_SALES_NOTE_PREFIX", "SN")
		t.Setenv("QD_SEQUENCE_FORMATS_SALES_NOTE_WIDTH", "8")
		t.Setenv("QD_RECEIVABLE_CACHE_TTL", "1m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Sequence.SalesNoteFolioOnConfirm)
		assert.Equal(t, "SN", cfg.Sequence.SalesNote.Prefix)
		assert.Equal(t, 8, cfg.Sequence.SalesNote.Width)
		assert.Equal(t, time.Minute, cfg.Receivable.CacheTTL)
	})

	t.Run("keeps an explicitly empty folio separator", func(t *testing.T) {
		t.Setenv("QD_SEQUENCE_SEPARATOR", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "", cfg.Sequence.Separator)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("QD_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("QD_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("rejects out of range folio width", func(t *testing.T) {
		t.Setenv("QD_SEQUENCE_FORMATS_QUOTE_WIDTH", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sequence.formats.quote.width")
	})

	t.Run("requires brokers when notifications are enabled", func(t *testing.T) {
		t.Setenv("QD_NOTIFICATION_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kafka_brokers")
	})
}

func TestLoad_Production(t *testing.T) {
	setProd := func(t *testing.T) {
		t.Setenv("QD_APP_ENV", "production")
		t.Setenv("QD_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("QD_DATABASE_PASSWORD", "secure-password")
		t.Setenv("QD_DATABASE_SSLMODE", "require")
	}

	t.Run("accepts a complete production config", func(t *testing.T) {
		setProd(t)
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setProd(t)
		t.Setenv("QD_JWT_SECRET", "short-secret")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setProd(t)
		t.Setenv("QD_DATABASE_SSLMODE", "disable")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "quotedesk", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/quotedesk?sslmode=disable", d.DSN())
}
