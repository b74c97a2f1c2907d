package database

import (
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	err = configurePool(db, cfg)
	assert.NoError(t, err)
}

func TestConfigurePoolDefaults(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Zero values fall back to the built-in pool sizing.
	err = configurePool(db, &config.Config{})
	assert.NoError(t, err)
}

func TestConnect_TestEnvUsesSQLite(t *testing.T) {
	cfg := &config.Config{Env: "test"}

	db, err := Connect(cfg)
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Post{}))
	assert.Equal(t, "post", (models.Post{}).TableName())
}
