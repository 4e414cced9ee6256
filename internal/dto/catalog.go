package dto

import "github.com/shopspring/decimal"

// MaterialRequest represents a new material
type MaterialRequest struct {
	Category    string          `json:"category" binding:"max=50"`
	Code        string          `json:"code" binding:"required,max=50"`
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description"`
	Unit        string          `json:"unit" binding:"required,max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	SupplyType  string          `json:"supply_type"`
}

// UpdateMaterialRequest represents a partial material update
type UpdateMaterialRequest struct {
	Category    *string          `json:"category"`
	Code        *string          `json:"code"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Unit        *string          `json:"unit"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	SupplyType  *string          `json:"supply_type"`
	IsActive    *bool            `json:"is_active"`
}

// WorkItemRequest represents a new work item
type WorkItemRequest struct {
	Category           string          `json:"category"`
	ProjectNumber      string          `json:"project_number" binding:"required,max=20"`
	Name               string          `json:"name" binding:"required,max=100"`
	Description        string          `json:"description"`
	Unit               string          `json:"unit" binding:"required,max=20"`
	SkilledLaborDays   decimal.Decimal `json:"skilled_labor_days"`
	UnskilledLaborDays decimal.Decimal `json:"unskilled_labor_days"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
}

// UpdateWorkItemRequest represents a partial work item update
type UpdateWorkItemRequest struct {
	Category           *string          `json:"category"`
	ProjectNumber      *string          `json:"project_number"`
	Name               *string          `json:"name"`
	Description        *string          `json:"description"`
	Unit               *string          `json:"unit"`
	SkilledLaborDays   *decimal.Decimal `json:"skilled_labor_days"`
	UnskilledLaborDays *decimal.Decimal `json:"unskilled_labor_days"`
	UnitPrice          *decimal.Decimal `json:"unit_price"`
	IsActive           *bool            `json:"is_active"`
}
