package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/database"
)

func TestNewConnection_SQLiteFileMigrates(t *testing.T) {
	cfg := &config.DatabaseConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "planner.db")}

	db, err := database.NewConnection(cfg)
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable("recipes"))
	assert.True(t, db.Migrator().HasTable("plan_runs"))
}

func TestNewConnection_UnsupportedType(t *testing.T) {
	_, err := database.NewConnection(&config.DatabaseConfig{Type: "mysql"})

	assert.ErrorContains(t, err, "unsupported database type")
}
