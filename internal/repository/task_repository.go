package repository

import (
	"github.com/xinwork/repair-order-api/internal/database"
	"github.com/xinwork/repair-order-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	if err := withPreload(r.db, preload).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.TeamID != nil {
		query = query.Where("tasks.team_id = ?", *filter.TeamID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.WorkerID != nil {
		workerSubQuery := r.db.Model(&models.TaskWorker{}).
			Select("1").
			Where("task_workers.task_id = tasks.id").
			Where("task_workers.user_id = ?", *filter.WorkerID)
		query = query.Where("tasks.assigned_to_id = ? OR EXISTS (?)", *filter.WorkerID, workerSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("tasks.created_at DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves the task columns without touching associations
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Delete removes a task together with its line items and workers
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskMaterial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskWorkItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskWorker{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// DeleteLineItems removes every material and work item line of a task
func (r *GormTaskRepository) DeleteLineItems(taskID uint64) error {
	if err := r.db.Where("task_id = ?", taskID).Delete(&models.TaskMaterial{}).Error; err != nil {
		return err
	}
	return r.db.Where("task_id = ?", taskID).Delete(&models.TaskWorkItem{}).Error
}

// CreateMaterialLines inserts material line items
func (r *GormTaskRepository) CreateMaterialLines(lines []models.TaskMaterial) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.Omit(clause.Associations).Create(&lines).Error
}

// CreateWorkItemLines inserts work item line items
func (r *GormTaskRepository) CreateWorkItemLines(lines []models.TaskWorkItem) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.Omit(clause.Associations).Create(&lines).Error
}

// AddWorker adds a worker to a task
func (r *GormTaskRepository) AddWorker(worker *models.TaskWorker) error {
	return r.db.Omit(clause.Associations).Create(worker).Error
}

// RemoveWorker removes a worker from a task
func (r *GormTaskRepository) RemoveWorker(taskID, userID uint64) error {
	return r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskWorker{}).Error
}

// FindWorker finds a specific task worker row
func (r *GormTaskRepository) FindWorker(taskID, userID uint64) (*models.TaskWorker, error) {
	var worker models.TaskWorker
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}
