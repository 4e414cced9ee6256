package repository

import (
	"github.com/xinwork/repair-order-api/internal/database"
	"github.com/xinwork/repair-order-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	if err := withPreload(r.db, preload).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("priority DESC, created_at DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

// Delete removes a project and its team links
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTeam{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

// CountTasks returns the total and completed task counts of a project
func (r *GormProjectRepository) CountTasks(projectID uint64) (int64, int64, error) {
	var total, completed int64
	if err := r.db.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&models.Task{}).
		Where("project_id = ? AND status = ?", projectID, models.TaskStatusCompleted).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

// AddTeam links a team to a project
func (r *GormProjectRepository) AddTeam(link *models.ProjectTeam) error {
	return r.db.Omit(clause.Associations).Create(link).Error
}

// RemoveTeam unlinks a team from a project
func (r *GormProjectRepository) RemoveTeam(projectID, teamID uint64) error {
	return r.db.Where("project_id = ? AND team_id = ?", projectID, teamID).
		Delete(&models.ProjectTeam{}).Error
}

// FindTeamLink finds a specific project team link
func (r *GormProjectRepository) FindTeamLink(projectID, teamID uint64) (*models.ProjectTeam, error) {
	var link models.ProjectTeam
	if err := r.db.Where("project_id = ? AND team_id = ?", projectID, teamID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListTeams lists the team links of a project with teams preloaded
func (r *GormProjectRepository) ListTeams(projectID uint64) ([]models.ProjectTeam, error) {
	var links []models.ProjectTeam
	if err := r.db.Preload("Team").
		Where("project_id = ?", projectID).
		Order("assigned_at ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
