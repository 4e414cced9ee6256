package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/repository"
)

const defaultMaterialCategory = "other"

// MaterialService manages the material catalog
type MaterialService struct {
	repos *repository.Repositories
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(repos *repository.Repositories) *MaterialService {
	return &MaterialService{repos: repos}
}

// MaterialInput carries the fields of a material create
type MaterialInput struct {
	Category    string
	Code        string
	Name        string
	Description string
	Unit        string
	UnitPrice   decimal.Decimal
	SupplyType  models.SupplyType
}

// UpdateMaterialInput represents a partial material update
type UpdateMaterialInput struct {
	Category    *string
	Code        *string
	Name        *string
	Description *string
	Unit        *string
	UnitPrice   *decimal.Decimal
	SupplyType  *models.SupplyType
	IsActive    *bool
}

// List returns catalog materials matching the filter
func (s *MaterialService) List(ctx context.Context, filter repository.MaterialFilter) ([]models.Material, int64, error) {
	materials, total, err := s.repos.WithContext(ctx).Materials.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, total, nil
}

// Get returns one material
func (s *MaterialService) Get(ctx context.Context, id uint64) (*models.Material, error) {
	material, err := s.repos.WithContext(ctx).Materials.FindByID(id)
	if err != nil {
		return nil, lookupError(err, "material", id)
	}
	return material, nil
}

// Create adds a material to the catalog
func (s *MaterialService) Create(ctx context.Context, input MaterialInput) (*models.Material, error) {
	material, err := newMaterial(input)
	if err != nil {
		return nil, err
	}

	repos := s.repos.WithContext(ctx)
	if err := checkMaterialCode(repos, material.Code); err != nil {
		return nil, err
	}

	if err := repos.Materials.Create(material); err != nil {
		if isUniqueViolation(err) {
			return nil, apierrors.NewValidation("material code %q already exists", material.Code)
		}
		return nil, fmt.Errorf("failed to create material: %w", err)
	}
	return material, nil
}

// Update applies a partial update to a material
func (s *MaterialService) Update(ctx context.Context, id uint64, input UpdateMaterialInput) (*models.Material, error) {
	repos := s.repos.WithContext(ctx)
	material, err := repos.Materials.FindByID(id)
	if err != nil {
		return nil, lookupError(err, "material", id)
	}

	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, apierrors.NewValidation("code cannot be empty")
		}
		if code != material.Code {
			if err := checkMaterialCode(repos, code); err != nil {
				return nil, err
			}
			material.Code = code
		}
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apierrors.NewValidation("name cannot be empty")
		}
		material.Name = name
	}
	if input.Category != nil {
		material.Category = *input.Category
	}
	if input.Description != nil {
		material.Description = *input.Description
	}
	if input.Unit != nil {
		material.Unit = *input.Unit
	}
	if input.UnitPrice != nil {
		if !roundMoney(*input.UnitPrice).IsPositive() {
			return nil, apierrors.NewValidation("unit_price must be greater than 0")
		}
		material.UnitPrice = roundMoney(*input.UnitPrice)
	}
	if input.SupplyType != nil {
		material.SupplyType = *input.SupplyType
	}
	if input.IsActive != nil {
		material.IsActive = *input.IsActive
	}

	if err := repos.Materials.Update(material); err != nil {
		if isUniqueViolation(err) {
			return nil, apierrors.NewValidation("material code %q already exists", material.Code)
		}
		return nil, fmt.Errorf("failed to update material: %w", err)
	}
	return material, nil
}

// Delete removes an unused material or deactivates one referenced by line items
func (s *MaterialService) Delete(ctx context.Context, id uint64) (DeleteOutcome, error) {
	var outcome DeleteOutcome
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Materials.FindByID(id); err != nil {
			return lookupError(err, "material", id)
		}

		var err error
		outcome, err = dependentDelete{
			entity:     "material",
			dependents: tx.Materials.CountUsages,
			deactivate: tx.Materials.Deactivate,
			remove:     tx.Materials.Delete,
		}.apply(id)
		return err
	})
	return outcome, err
}

// newMaterial validates input and builds an active material
func newMaterial(input MaterialInput) (*models.Material, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	switch {
	case code == "":
		return nil, apierrors.NewValidation("code is required")
	case name == "":
		return nil, apierrors.NewValidation("name is required")
	case strings.TrimSpace(input.Unit) == "":
		return nil, apierrors.NewValidation("unit is required")
	case !roundMoney(input.UnitPrice).IsPositive():
		return nil, apierrors.NewValidation("unit_price must be greater than 0")
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = defaultMaterialCategory
	}
	supplyType := input.SupplyType
	if supplyType == "" {
		supplyType = models.SupplyTypeBoth
	}

	return &models.Material{
		Category:    category,
		Code:        code,
		Name:        name,
		Description: input.Description,
		Unit:        strings.TrimSpace(input.Unit),
		UnitPrice:   roundMoney(input.UnitPrice),
		SupplyType:  supplyType,
		IsActive:    true,
	}, nil
}

func checkMaterialCode(repos *repository.Repositories, code string) error {
	existing, err := repos.Materials.ExistingCodes([]string{code})
	if err != nil {
		return fmt.Errorf("failed to check material code: %w", err)
	}
	if len(existing) > 0 {
		return apierrors.NewValidation("material code %q already exists", code)
	}
	return nil
}
