package database

import (
	"testing"

	"go-inventory-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func TestPostgresDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "inv", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=inv port=5432 sslmode=disable TimeZone=UTC", PostgresDSN(cfg))

	cfg.URL = "postgres://x"
	assert.Equal(t, "postgres://x", PostgresDSN(cfg))
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("silent"))
	assert.Equal(t, logger.Info, gormLogLevel("info"))
	assert.Equal(t, logger.Warn, gormLogLevel(""))
}

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect(config.DatabaseConfig{Driver: "sqlite", URL: ":memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}
