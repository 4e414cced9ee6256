package repository

import (
	"errors"
	"fmt"

	"github.com/xinwork/repair-order-api/internal/database"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCreateTeam is returned when creating the team row fails inside CreateWithLeader.
	ErrCreateTeam = errors.New("team repository: create team failed")
	// ErrCreateTeamLeader is returned when creating the leader membership fails inside CreateWithLeader.
	ErrCreateTeamLeader = errors.New("team repository: create team leader failed")
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithLeader creates a team and its leader membership atomically.
func (r *GormTeamRepository) CreateWithLeader(team *models.Team, leader *models.TeamMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTeam, err)
		}

		leader.TeamID = team.ID
		leader.IsLeader = true

		if err := tx.Omit(clause.Associations).Create(leader).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTeamLeader, err)
		}
		return nil
	})
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(id uint64, preload ...string) (*models.Team, error) {
	var team models.Team
	if err := withPreload(r.db, preload).First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List retrieves teams with pagination
func (r *GormTeamRepository) List(activeOnly bool, params utils.PaginationParams) ([]models.Team, int64, error) {
	var teams []models.Team

	query := r.db.Model(&models.Team{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("name ASC").
		Scopes(database.Paginate(params)).
		Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Omit(clause.Associations).Save(team).Error
}

// Delete removes a team with its members and project links
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.ProjectTeam{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, id).Error
	})
}

// Deactivate marks a team inactive
func (r *GormTeamRepository) Deactivate(id uint64) error {
	return r.db.Model(&models.Team{}).Where("id = ?", id).Update("is_active", false).Error
}

// CountTasks counts the tasks handled by a team
func (r *GormTeamRepository) CountTasks(id uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("team_id = ?", id).Count(&count).Error
	return count, err
}

// AddMember adds a member to a team
func (r *GormTeamRepository) AddMember(member *models.TeamMember) error {
	return r.db.Omit(clause.Associations).Create(member).Error
}

// RemoveMember removes a member from a team
func (r *GormTeamRepository) RemoveMember(teamID, userID uint64) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error
}

// FindMember finds a specific team member
func (r *GormTeamRepository) FindMember(teamID, userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists the members of a team with users preloaded
func (r *GormTeamRepository) ListMembers(teamID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Preload("User").
		Where("team_id = ?", teamID).
		Order("is_leader DESC, joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
