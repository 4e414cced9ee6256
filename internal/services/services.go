package services

import (
	"errors"
	"fmt"
	"strings"

	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	ID   uint64
	Role models.Role
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// lookupError maps a missing row to NotFound and wraps anything else
func lookupError(err error, entity string, id uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierrors.NewNotFound("%s %d not found", entity, id)
	}
	return fmt.Errorf("failed to find %s: %w", entity, err)
}

// referenceError is lookupError for ids supplied in a payload, which are validation failures
func referenceError(err error, entity string, id uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierrors.NewValidation("%s %d does not exist", entity, id)
	}
	return fmt.Errorf("failed to find %s: %w", entity, err)
}

// isUniqueViolation recognises unique index failures from sqlite, mysql and postgres
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
