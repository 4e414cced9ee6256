package repository

import (
	"github.com/xinwork/repair-order-api/internal/database"
	"github.com/xinwork/repair-order-api/internal/models"
	"gorm.io/gorm"
)

// GormMaterialRepository is a GORM implementation of MaterialRepository
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &GormMaterialRepository{db: db}
}

// Create creates a new material
func (r *GormMaterialRepository) Create(material *models.Material) error {
	return r.db.Create(material).Error
}

// FindByID finds a material by ID
func (r *GormMaterialRepository) FindByID(id uint64) (*models.Material, error) {
	var material models.Material
	if err := r.db.First(&material, id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// FindByIDs returns the materials with the given IDs keyed by ID
func (r *GormMaterialRepository) FindByIDs(ids []uint64) (map[uint64]models.Material, error) {
	found := make(map[uint64]models.Material, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var materials []models.Material
	if err := r.db.Where("id IN ?", ids).Find(&materials).Error; err != nil {
		return nil, err
	}
	for _, m := range materials {
		found[m.ID] = m
	}
	return found, nil
}

// ExistingCodes returns which of the given codes are already used
func (r *GormMaterialRepository) ExistingCodes(codes []string) ([]string, error) {
	existing := []string{}
	if len(codes) == 0 {
		return existing, nil
	}
	err := r.db.Model(&models.Material{}).
		Where("code IN ?", codes).
		Pluck("code", &existing).Error
	return existing, err
}

// List retrieves materials with filtering and pagination
func (r *GormMaterialRepository) List(filter MaterialFilter) ([]models.Material, int64, error) {
	var materials []models.Material

	query := r.db.Model(&models.Material{}).
		Scopes(database.Contains("name", filter.Name), database.Contains("code", filter.Code))
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.SupplyType != nil {
		query = query.Where("supply_type = ?", *filter.SupplyType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("category ASC, code ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&materials).Error; err != nil {
		return nil, 0, err
	}
	return materials, total, nil
}

// Update updates a material
func (r *GormMaterialRepository) Update(material *models.Material) error {
	return r.db.Save(material).Error
}

// Delete removes a material row
func (r *GormMaterialRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Material{}, id).Error
}

// Deactivate marks a material inactive
func (r *GormMaterialRepository) Deactivate(id uint64) error {
	return r.db.Model(&models.Material{}).Where("id = ?", id).Update("is_active", false).Error
}

// CountUsages counts the task line items referencing a material
func (r *GormMaterialRepository) CountUsages(id uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.TaskMaterial{}).Where("material_id = ?", id).Count(&count).Error
	return count, err
}
