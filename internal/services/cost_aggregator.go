package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xinwork/repair-order-api/internal/constants"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/repository"
)

// MaterialLine is one requested material usage
type MaterialLine struct {
	MaterialID        uint64
	Quantity          decimal.Decimal
	IsCompanyProvided bool
}

// WorkItemLine is one requested work item usage
type WorkItemLine struct {
	WorkItemID uint64
	Quantity   decimal.Decimal
}

// LineItems is the full replacement set for a task
type LineItems struct {
	Materials []MaterialLine
	WorkItems []WorkItemLine
}

// CostAggregator replaces a task's line items and recomputes its cost fields.
// It must run inside a transaction supplied by the caller.
type CostAggregator struct {
	now func() time.Time
}

// NewCostAggregator creates a CostAggregator
func NewCostAggregator() *CostAggregator {
	return &CostAggregator{now: time.Now}
}

// Validate rejects quantities that are not positive at column scale before any database work
func (a *CostAggregator) Validate(items LineItems) error {
	for _, line := range items.Materials {
		if !roundQuantity(line.Quantity).IsPositive() {
			return apierrors.NewValidation("material %d: quantity must be greater than 0", line.MaterialID)
		}
	}
	for _, line := range items.WorkItems {
		if !roundQuantity(line.Quantity).IsPositive() {
			return apierrors.NewValidation("work item %d: quantity must be greater than 0", line.WorkItemID)
		}
	}
	return nil
}

// Apply replaces the line items of task using the current catalog prices and
// stores the recomputed costs. When complete is true the task is also marked completed.
func (a *CostAggregator) Apply(tx *repository.Repositories, task *models.Task, items LineItems, complete bool) error {
	if err := a.Validate(items); err != nil {
		return err
	}

	materials, err := tx.Materials.FindByIDs(materialIDs(items.Materials))
	if err != nil {
		return fmt.Errorf("failed to load materials: %w", err)
	}
	workItems, err := tx.WorkItems.FindByIDs(workItemIDs(items.WorkItems))
	if err != nil {
		return fmt.Errorf("failed to load work items: %w", err)
	}

	companyCost := decimal.Zero
	selfCost := decimal.Zero
	laborCost := decimal.Zero

	materialLines := make([]models.TaskMaterial, 0, len(items.Materials))
	for _, line := range items.Materials {
		material, ok := materials[line.MaterialID]
		if !ok {
			return apierrors.NewValidation("material %d does not exist", line.MaterialID)
		}
		quantity, price := roundQuantity(line.Quantity), roundMoney(material.UnitPrice)
		total := lineTotal(quantity, price)
		materialLines = append(materialLines, models.TaskMaterial{
			TaskID:            task.ID,
			MaterialID:        material.ID,
			Quantity:          quantity,
			IsCompanyProvided: line.IsCompanyProvided,
			UnitPrice:         price,
			TotalPrice:        total,
		})
		if line.IsCompanyProvided {
			companyCost = companyCost.Add(total)
		} else {
			selfCost = selfCost.Add(total)
		}
	}

	workItemLines := make([]models.TaskWorkItem, 0, len(items.WorkItems))
	for _, line := range items.WorkItems {
		workItem, ok := workItems[line.WorkItemID]
		if !ok {
			return apierrors.NewValidation("work item %d does not exist", line.WorkItemID)
		}
		quantity, price := roundQuantity(line.Quantity), roundMoney(workItem.UnitPrice)
		total := lineTotal(quantity, price)
		workItemLines = append(workItemLines, models.TaskWorkItem{
			TaskID:     task.ID,
			WorkItemID: workItem.ID,
			Quantity:   quantity,
			UnitPrice:  price,
			TotalPrice: total,
		})
		laborCost = laborCost.Add(total)
	}

	if err := tx.Tasks.DeleteLineItems(task.ID); err != nil {
		return fmt.Errorf("failed to clear line items: %w", err)
	}
	if err := tx.Tasks.CreateMaterialLines(materialLines); err != nil {
		return fmt.Errorf("failed to create material lines: %w", err)
	}
	if err := tx.Tasks.CreateWorkItemLines(workItemLines); err != nil {
		return fmt.Errorf("failed to create work item lines: %w", err)
	}

	task.CompanyMaterialCost = companyCost
	task.SelfMaterialCost = selfCost
	task.LaborCost = laborCost
	task.RecomputeTotals()

	if complete {
		now := a.now()
		task.Status = models.TaskStatusCompleted
		task.CompletedAt = &now
	}

	if err := tx.Tasks.Update(task); err != nil {
		return fmt.Errorf("failed to update task costs: %w", err)
	}
	return nil
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(constants.MoneyScale)
}

func roundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(constants.QuantityScale)
}

// lineTotal is stored at money scale so the task sums match the stored lines
func lineTotal(quantity, price decimal.Decimal) decimal.Decimal {
	return roundMoney(quantity.Mul(price))
}

func materialIDs(lines []MaterialLine) []uint64 {
	ids := make([]uint64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.MaterialID)
	}
	return ids
}

func workItemIDs(lines []WorkItemLine) []uint64 {
	ids := make([]uint64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.WorkItemID)
	}
	return ids
}
