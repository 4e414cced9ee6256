package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xinwork/repair-order-api/internal/config"
	"github.com/xinwork/repair-order-api/internal/constants"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var fieldValidator = validator.New()

// UserService manages user accounts
type UserService struct {
	repos *repository.Repositories
}

// NewUserService creates a new UserService
func NewUserService(repos *repository.Repositories) *UserService {
	return &UserService{repos: repos}
}

// CreateUserInput carries the fields of a new account
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Role     models.Role
}

// UpdateUserInput represents a partial user update.
// Role and IsActive may only be changed by an admin.
type UpdateUserInput struct {
	Email    *string
	FullName *string
	Phone    *string
	Password *string
	Role     *models.Role
	IsActive *bool
}

// List returns users; admin only
func (s *UserService) List(ctx context.Context, actor Actor, filter repository.UserFilter) ([]models.User, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, apierrors.NewForbidden("only admins can list users")
	}

	users, total, err := s.repos.WithContext(ctx).Users.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Get returns a user to an admin or to the user themself
func (s *UserService) Get(ctx context.Context, actor Actor, id uint64) (*models.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, apierrors.NewForbidden("cannot view another user")
	}

	user, err := s.repos.WithContext(ctx).Users.FindByID(id)
	if err != nil {
		return nil, lookupError(err, "user", id)
	}
	return user, nil
}

// Create creates an account; admin only
func (s *UserService) Create(ctx context.Context, actor Actor, input CreateUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apierrors.NewForbidden("only admins can create users")
	}

	user, err := newUser(input)
	if err != nil {
		return nil, err
	}
	if err := createUser(s.repos.WithContext(ctx), user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update changes a user's profile
func (s *UserService) Update(ctx context.Context, actor Actor, id uint64, input UpdateUserInput) (*models.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, apierrors.NewForbidden("cannot modify another user")
	}
	if !actor.IsAdmin() && (input.Role != nil || input.IsActive != nil) {
		return nil, apierrors.NewForbidden("only admins can change role or active status")
	}

	repos := s.repos.WithContext(ctx)
	user, err := repos.Users.FindByID(id)
	if err != nil {
		return nil, lookupError(err, "user", id)
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if err := checkEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			if err := ensureEmailFree(repos, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := repos.Users.Update(user); err != nil {
		if isUniqueViolation(err) {
			return nil, apierrors.NewValidation("email %q is already registered", user.Email)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes a user without history, or deactivates one that has any
func (s *UserService) Delete(ctx context.Context, actor Actor, id uint64) (DeleteOutcome, error) {
	if !actor.IsAdmin() {
		return "", apierrors.NewForbidden("only admins can delete users")
	}
	if actor.ID == id {
		return "", apierrors.NewConflict("cannot delete your own account")
	}

	var outcome DeleteOutcome
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Users.FindByID(id); err != nil {
			return lookupError(err, "user", id)
		}

		var err error
		outcome, err = dependentDelete{
			entity:     "user",
			dependents: tx.Users.CountDependents,
			deactivate: tx.Users.Deactivate,
			remove:     tx.Users.Delete,
		}.apply(id)
		return err
	})
	return outcome, err
}

// EnsureAdmin creates the bootstrap admin account when no user has its username.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg config.BootstrapConfig) (bool, error) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	repos := s.repos.WithContext(ctx)
	if _, err := repos.Users.FindByUsername(cfg.AdminUsername); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check admin user: %w", err)
	}

	user, err := newUser(CreateUserInput{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	if err := createUser(repos, user); err != nil {
		return false, err
	}
	return true, nil
}

// newUser validates input and builds an active user with a hashed password
func newUser(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apierrors.NewValidation("username is required")
	}
	email := strings.TrimSpace(input.Email)
	if err := checkEmail(email); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleWorker
	}
	if _, err := models.ParseRole(string(role)); err != nil {
		return nil, apierrors.NewValidation("%s", err.Error())
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Role:         role,
		IsActive:     true,
	}, nil
}

// createUser checks username and email uniqueness and inserts the user
func createUser(repos *repository.Repositories, user *models.User) error {
	if err := ensureUsernameFree(repos, user.Username); err != nil {
		return err
	}
	if err := ensureEmailFree(repos, user.Email); err != nil {
		return err
	}

	if err := repos.Users.Create(user); err != nil {
		if isUniqueViolation(err) {
			return apierrors.NewValidation("username or email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func ensureUsernameFree(repos *repository.Repositories, username string) error {
	existing, err := repos.Users.ExistingUsernames([]string{username})
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if len(existing) > 0 {
		return apierrors.NewValidation("username %q already exists", username)
	}
	return nil
}

func ensureEmailFree(repos *repository.Repositories, email string) error {
	existing, err := repos.Users.ExistingEmails([]string{email})
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if len(existing) > 0 {
		return apierrors.NewValidation("email %q is already registered", email)
	}
	return nil
}

func checkEmail(email string) error {
	if err := fieldValidator.Var(email, "required,email"); err != nil {
		return apierrors.NewValidation("invalid email %q", email)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < constants.MinPasswordLength {
		return "", apierrors.NewValidation("password must be at least %d characters", constants.MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
