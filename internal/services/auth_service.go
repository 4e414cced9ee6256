package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xinwork/repair-order-api/internal/auth"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errInvalidCredentials = apierrors.NewUnauthorized("incorrect username or password")

// AuthService handles registration, login and token resolution
type AuthService struct {
	repos  *repository.Repositories
	tokens *auth.TokenService
}

// NewAuthService creates a new AuthService
func NewAuthService(repos *repository.Repositories, tokens *auth.TokenService) *AuthService {
	return &AuthService{repos: repos, tokens: tokens}
}

// RegisterInput represents the information needed to create an account
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

// Register creates a worker account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	user, err := newUser(CreateUserInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Phone:    input.Phone,
		Role:     models.RoleWorker,
	})
	if err != nil {
		return nil, err
	}
	if err := createUser(s.repos.WithContext(ctx), user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the active user
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repos.WithContext(ctx).Users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, apierrors.NewUnauthorized("user is inactive")
	}
	return user, nil
}

// Login authenticates and issues a bearer token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// ResolveToken validates a bearer token and loads its active user
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apierrors.NewUnauthorized("token has expired")
		}
		return nil, apierrors.NewUnauthorized("could not validate credentials")
	}

	return s.CurrentUser(ctx, claims.UserID)
}

// CurrentUser loads the caller; a deleted or deactivated user is unauthorized
func (s *AuthService) CurrentUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.repos.WithContext(ctx).Users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewUnauthorized("could not validate credentials")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, apierrors.NewUnauthorized("user is inactive")
	}
	return user, nil
}
