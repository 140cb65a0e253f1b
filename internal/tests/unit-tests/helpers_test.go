package unit_tests

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"aiteam/internal/database"
	"aiteam/internal/services"
)

func newRoster(t *testing.T) *services.Roster {
	t.Helper()
	r, err := services.LoadRoster()
	require.NoError(t, err)
	return r
}

func newCatalog(t *testing.T) services.ModelCatalog {
	t.Helper()
	c, err := services.NewModelCatalog()
	require.NoError(t, err)
	return c
}

func newMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(database.Config{Path: ":memory:", Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
