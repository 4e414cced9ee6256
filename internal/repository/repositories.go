package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to the same connection or transaction
type Repositories struct {
	db         *gorm.DB
	Users      UserRepository
	Projects   ProjectRepository
	Tasks      TaskRepository
	Materials  MaterialRepository
	WorkItems  WorkItemRepository
	Teams      TeamRepository
	Statistics StatisticsRepository
}

// NewRepositories creates the repository set for db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		Users:      NewUserRepository(db),
		Projects:   NewProjectRepository(db),
		Tasks:      NewTaskRepository(db),
		Materials:  NewMaterialRepository(db),
		WorkItems:  NewWorkItemRepository(db),
		Teams:      NewTeamRepository(db),
		Statistics: NewStatisticsRepository(db),
	}
}

// WithContext returns a repository set whose queries observe ctx
func (r *Repositories) WithContext(ctx context.Context) *Repositories {
	return NewRepositories(r.db.WithContext(ctx))
}

// Transaction runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *Repositories) Transaction(fn func(tx *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// DB exposes the underlying handle for health checks
func (r *Repositories) DB() *gorm.DB {
	return r.db
}

func withPreload(db *gorm.DB, preload []string) *gorm.DB {
	for _, p := range preload {
		db = db.Preload(p)
	}
	return db
}
