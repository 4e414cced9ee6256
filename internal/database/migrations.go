package database

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/xinwork/repair-order-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate applies every pending schema migration
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20240301_create_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(models.All()...)
			},
			Rollback: func(tx *gorm.DB) error {
				all := models.All()
				for i := len(all) - 1; i >= 0; i-- {
					if err := tx.Migrator().DropTable(all[i]); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			ID: "20240415_add_lookup_indexes",
			Migrate: func(tx *gorm.DB) error {
				return AddIndexes(tx)
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database migrations completed")
	return nil
}

// AddIndexes adds composite indexes used by list filters and statistics
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		{&models.Task{}, "tasks", "idx_tasks_status_created_at", "status, created_at"},
		{&models.Task{}, "tasks", "idx_tasks_team_status", "team_id, status"},
		{&models.Task{}, "tasks", "idx_tasks_completed_at", "completed_at"},
		{&models.Project{}, "projects", "idx_projects_created_at", "created_at"},
		{&models.Material{}, "materials", "idx_materials_category_supply", "category, supply_type"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}
