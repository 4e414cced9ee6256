package repository

import (
	"github.com/xinwork/repair-order-api/internal/database"
	"github.com/xinwork/repair-order-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkItemRepository is a GORM implementation of WorkItemRepository
type GormWorkItemRepository struct {
	db *gorm.DB
}

// NewWorkItemRepository creates a new WorkItemRepository
func NewWorkItemRepository(db *gorm.DB) WorkItemRepository {
	return &GormWorkItemRepository{db: db}
}

// Create creates a new work item
func (r *GormWorkItemRepository) Create(item *models.WorkItem) error {
	return r.db.Create(item).Error
}

// FindByID finds a work item by ID
func (r *GormWorkItemRepository) FindByID(id uint64) (*models.WorkItem, error) {
	var item models.WorkItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs returns the work items with the given IDs keyed by ID
func (r *GormWorkItemRepository) FindByIDs(ids []uint64) (map[uint64]models.WorkItem, error) {
	found := make(map[uint64]models.WorkItem, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var items []models.WorkItem
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		found[item.ID] = item
	}
	return found, nil
}

// ExistingProjectNumbers returns which of the given project numbers are already used
func (r *GormWorkItemRepository) ExistingProjectNumbers(numbers []string) ([]string, error) {
	existing := []string{}
	if len(numbers) == 0 {
		return existing, nil
	}
	err := r.db.Model(&models.WorkItem{}).
		Where("project_number IN ?", numbers).
		Pluck("project_number", &existing).Error
	return existing, err
}

// List retrieves work items with filtering and pagination
func (r *GormWorkItemRepository) List(filter WorkItemFilter) ([]models.WorkItem, int64, error) {
	var items []models.WorkItem

	query := r.db.Model(&models.WorkItem{}).
		Scopes(database.Contains("name", filter.Name), database.Contains("project_number", filter.ProjectNumber))
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("category ASC, project_number ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update updates a work item
func (r *GormWorkItemRepository) Update(item *models.WorkItem) error {
	return r.db.Save(item).Error
}

// Delete removes a work item row
func (r *GormWorkItemRepository) Delete(id uint64) error {
	return r.db.Delete(&models.WorkItem{}, id).Error
}

// Deactivate marks a work item inactive
func (r *GormWorkItemRepository) Deactivate(id uint64) error {
	return r.db.Model(&models.WorkItem{}).Where("id = ?", id).Update("is_active", false).Error
}

// CountUsages counts the task line items referencing a work item
func (r *GormWorkItemRepository) CountUsages(id uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.TaskWorkItem{}).Where("work_item_id = ?", id).Count(&count).Error
	return count, err
}
