package repository

import (
	"database/sql"

	"github.com/xinwork/repair-order-api/internal/database"
	"github.com/xinwork/repair-order-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Omit(clause.Associations).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistingUsernames returns which of the given usernames are already used
func (r *GormUserRepository) ExistingUsernames(usernames []string) ([]string, error) {
	existing := []string{}
	if len(usernames) == 0 {
		return existing, nil
	}
	err := r.db.Model(&models.User{}).Where("username IN ?", usernames).Pluck("username", &existing).Error
	return existing, err
}

// ExistingEmails returns which of the given emails are already used
func (r *GormUserRepository) ExistingEmails(emails []string) ([]string, error) {
	existing := []string{}
	if len(emails) == 0 {
		return existing, nil
	}
	err := r.db.Model(&models.User{}).Where("email IN ?", emails).Pluck("email", &existing).Error
	return existing, err
}

// List retrieves users with filtering and pagination
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, int64, error) {
	var users []models.User

	query := r.db.Model(&models.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Omit(clause.Associations).Save(user).Error
}

// Delete removes a user row
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Delete(&models.User{}, id).Error
}

// Deactivate marks a user inactive
func (r *GormUserRepository) Deactivate(id uint64) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false).Error
}

// CountDependents counts projects, tasks and memberships referencing a user
func (r *GormUserRepository) CountDependents(id uint64) (int64, error) {
	dependents := []struct {
		model interface{}
		where string
	}{
		{&models.Project{}, "created_by_id = @id"},
		{&models.Task{}, "created_by_id = @id OR assigned_to_id = @id"},
		{&models.TaskWorker{}, "user_id = @id"},
		{&models.TeamMember{}, "user_id = @id"},
	}

	var total int64
	for _, d := range dependents {
		var n int64
		if err := r.db.Model(d.model).Where(d.where, sql.Named("id", id)).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
