package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xinwork/repair-order-api/internal/config"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Type:     "sqlite",
		DBName:   filepath.Join(t.TempDir(), "data", "test.db"),
		LogLevel: "silent",
	}
	db, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })
	return db
}

func TestMigrate(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db, zap.NewNop()))
	// a second run applies nothing
	require.NoError(t, Migrate(db, zap.NewNop()))

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Task{}, "idx_tasks_status_created_at"))
	assert.NoError(t, Ping(context.Background(), db))
}

func TestConnect_HandlesAreIndependent(t *testing.T) {
	first := openTestDB(t)
	second := openTestDB(t)
	require.NoError(t, Migrate(first, zap.NewNop()))

	assert.True(t, first.Migrator().HasTable(&models.Task{}))
	assert.False(t, second.Migrator().HasTable(&models.Task{}))

	require.NoError(t, Close(second))
	assert.NoError(t, Ping(context.Background(), first))
}

func TestDialector_UnsupportedType(t *testing.T) {
	_, err := Dialector(&config.DatabaseConfig{Type: "oracle"})
	assert.EqualError(t, err, "unsupported database type: oracle")
}

func TestScopes(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db, zap.NewNop()))

	for _, code := range []string{"CAB-1", "CAB-2", "PIPE-1"} {
		require.NoError(t, db.Create(&models.Material{
			Category:   "general",
			Code:       code,
			Name:       "Item " + code,
			Unit:       "m",
			UnitPrice:  decimal.NewFromInt(1),
			SupplyType: models.SupplyTypeBoth,
			IsActive:   true,
		}).Error)
	}

	var found []models.Material
	require.NoError(t, db.Scopes(Contains("code", " cab ")).Order("code").Find(&found).Error)
	assert.Len(t, found, 2)

	require.NoError(t, db.Scopes(Contains("code", "")).Find(&found).Error)
	assert.Len(t, found, 3)

	require.NoError(t, db.Scopes(Paginate(utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})).Order("code").Find(&found).Error)
	require.Len(t, found, 1)
	assert.Equal(t, "PIPE-1", found[0].Code)

	require.NoError(t, db.Scopes(Paginate(utils.PaginationParams{})).Find(&found).Error)
	assert.Len(t, found, 3)
}
