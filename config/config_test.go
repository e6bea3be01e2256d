package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Second, cfg.RateLimit.Window)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", DBName: "customers", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=customers sslmode=disable", pg.DSN())

	lite := DatabaseConfig{Driver: "sqlite", SQLitePath: "data.db"}
	assert.Equal(t, "data.db?_foreign_keys=on", lite.DSN())
}

func TestParseSlice(t *testing.T) {
	assert.Equal(t, []string{}, parseSlice(""))
	assert.Equal(t, []string{"a", "b"}, parseSlice(" a, ,b "))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 7, parseInt("7", 1))
	assert.Equal(t, 1, parseInt("x", 1))
	assert.True(t, parseBool("true"))
	assert.False(t, parseBool("nope"))
	assert.Equal(t, 2*time.Second, parseDuration("bad", 2*time.Second))
}
