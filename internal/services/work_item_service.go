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

// WorkItemService manages the labor catalog
type WorkItemService struct {
	repos *repository.Repositories
}

// NewWorkItemService creates a new WorkItemService
func NewWorkItemService(repos *repository.Repositories) *WorkItemService {
	return &WorkItemService{repos: repos}
}

// WorkItemInput carries the fields of a work item create
type WorkItemInput struct {
	Category           models.WorkItemCategory
	ProjectNumber      string
	Name               string
	Description        string
	Unit               string
	SkilledLaborDays   decimal.Decimal
	UnskilledLaborDays decimal.Decimal
	UnitPrice          decimal.Decimal
}

// UpdateWorkItemInput represents a partial work item update
type UpdateWorkItemInput struct {
	Category           *models.WorkItemCategory
	ProjectNumber      *string
	Name               *string
	Description        *string
	Unit               *string
	SkilledLaborDays   *decimal.Decimal
	UnskilledLaborDays *decimal.Decimal
	UnitPrice          *decimal.Decimal
	IsActive           *bool
}

// CategoryOption is one selectable work item category
type CategoryOption struct {
	Value models.WorkItemCategory `json:"value"`
	Label string                  `json:"label"`
}

// Categories lists the work item categories in display order
func (s *WorkItemService) Categories() []CategoryOption {
	categories := models.WorkItemCategories()
	out := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryOption{Value: c, Label: c.Label()})
	}
	return out
}

// List returns catalog work items matching the filter
func (s *WorkItemService) List(ctx context.Context, filter repository.WorkItemFilter) ([]models.WorkItem, int64, error) {
	items, total, err := s.repos.WithContext(ctx).WorkItems.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work items: %w", err)
	}
	return items, total, nil
}

// Get returns one work item
func (s *WorkItemService) Get(ctx context.Context, id uint64) (*models.WorkItem, error) {
	item, err := s.repos.WithContext(ctx).WorkItems.FindByID(id)
	if err != nil {
		return nil, lookupError(err, "work item", id)
	}
	return item, nil
}

// Create adds a work item to the catalog
func (s *WorkItemService) Create(ctx context.Context, input WorkItemInput) (*models.WorkItem, error) {
	item, err := newWorkItem(input)
	if err != nil {
		return nil, err
	}

	repos := s.repos.WithContext(ctx)
	if err := checkProjectNumber(repos, item.ProjectNumber); err != nil {
		return nil, err
	}

	if err := repos.WorkItems.Create(item); err != nil {
		if isUniqueViolation(err) {
			return nil, apierrors.NewValidation("project number %q already exists", item.ProjectNumber)
		}
		return nil, fmt.Errorf("failed to create work item: %w", err)
	}
	return item, nil
}

// Update applies a partial update to a work item
func (s *WorkItemService) Update(ctx context.Context, id uint64, input UpdateWorkItemInput) (*models.WorkItem, error) {
	repos := s.repos.WithContext(ctx)
	item, err := repos.WorkItems.FindByID(id)
	if err != nil {
		return nil, lookupError(err, "work item", id)
	}

	if input.ProjectNumber != nil {
		number := strings.TrimSpace(*input.ProjectNumber)
		if number == "" {
			return nil, apierrors.NewValidation("project_number cannot be empty")
		}
		if number != item.ProjectNumber {
			if err := checkProjectNumber(repos, number); err != nil {
				return nil, err
			}
			item.ProjectNumber = number
		}
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apierrors.NewValidation("name cannot be empty")
		}
		item.Name = name
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.SkilledLaborDays != nil {
		item.SkilledLaborDays = *input.SkilledLaborDays
	}
	if input.UnskilledLaborDays != nil {
		item.UnskilledLaborDays = *input.UnskilledLaborDays
	}
	if input.UnitPrice != nil {
		item.UnitPrice = roundMoney(*input.UnitPrice)
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	if err := checkWorkItemAmounts(item); err != nil {
		return nil, err
	}

	if err := repos.WorkItems.Update(item); err != nil {
		if isUniqueViolation(err) {
			return nil, apierrors.NewValidation("project number %q already exists", item.ProjectNumber)
		}
		return nil, fmt.Errorf("failed to update work item: %w", err)
	}
	return item, nil
}

// Delete removes an unused work item or deactivates one referenced by line items
func (s *WorkItemService) Delete(ctx context.Context, id uint64) (DeleteOutcome, error) {
	var outcome DeleteOutcome
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.WorkItems.FindByID(id); err != nil {
			return lookupError(err, "work item", id)
		}

		var err error
		outcome, err = dependentDelete{
			entity:     "work item",
			dependents: tx.WorkItems.CountUsages,
			deactivate: tx.WorkItems.Deactivate,
			remove:     tx.WorkItems.Delete,
		}.apply(id)
		return err
	})
	return outcome, err
}

// newWorkItem validates input and builds an active work item
func newWorkItem(input WorkItemInput) (*models.WorkItem, error) {
	number := strings.TrimSpace(input.ProjectNumber)
	name := strings.TrimSpace(input.Name)
	switch {
	case number == "":
		return nil, apierrors.NewValidation("project_number is required")
	case name == "":
		return nil, apierrors.NewValidation("name is required")
	case strings.TrimSpace(input.Unit) == "":
		return nil, apierrors.NewValidation("unit is required")
	}

	category := input.Category
	if category == "" {
		category = models.WorkItemCategoryLine
	}

	item := &models.WorkItem{
		Category:           category,
		ProjectNumber:      number,
		Name:               name,
		Description:        input.Description,
		Unit:               strings.TrimSpace(input.Unit),
		SkilledLaborDays:   input.SkilledLaborDays,
		UnskilledLaborDays: input.UnskilledLaborDays,
		UnitPrice:          roundMoney(input.UnitPrice),
		IsActive:           true,
	}
	if err := checkWorkItemAmounts(item); err != nil {
		return nil, err
	}
	return item, nil
}

func checkWorkItemAmounts(item *models.WorkItem) error {
	switch {
	case item.UnitPrice.IsNegative():
		return apierrors.NewValidation("unit_price must not be negative")
	case item.SkilledLaborDays.IsNegative():
		return apierrors.NewValidation("skilled_labor_days must not be negative")
	case item.UnskilledLaborDays.IsNegative():
		return apierrors.NewValidation("unskilled_labor_days must not be negative")
	}
	return nil
}

func checkProjectNumber(repos *repository.Repositories, number string) error {
	existing, err := repos.WorkItems.ExistingProjectNumbers([]string{number})
	if err != nil {
		return fmt.Errorf("failed to check project number: %w", err)
	}
	if len(existing) > 0 {
		return apierrors.NewValidation("project number %q already exists", number)
	}
	return nil
}
