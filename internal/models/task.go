package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Task is a repair work order and the root of its cost aggregation
type Task struct {
	ID                  uint64          `gorm:"primarykey" json:"id"`
	ProjectID           *uint64         `gorm:"index" json:"project_id"`
	Title               string          `gorm:"type:varchar(200);not null;index" json:"title"`
	Description         string          `gorm:"type:text" json:"description"`
	Attachment          string          `gorm:"type:text" json:"attachment"`
	WorkList            string          `gorm:"type:text" json:"work_list"`
	CompanyMaterialList string          `gorm:"type:text" json:"company_material_list"`
	SelfMaterialList    string          `gorm:"type:text" json:"self_material_list"`
	Status              TaskStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	LaborCost           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"labor_cost"`
	MaterialCost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"material_cost"`
	CompanyMaterialCost decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"company_material_cost"`
	SelfMaterialCost    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"self_material_cost"`
	TotalCost           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_cost"`
	CreatedByID         uint64          `gorm:"not null;index" json:"created_by_id"`
	AssignedToID        *uint64         `gorm:"index" json:"assigned_to_id"`
	TeamID              *uint64         `gorm:"index" json:"team_id"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	AssignedAt          *time.Time      `json:"assigned_at"`
	CompletedAt         *time.Time      `json:"completed_at"`

	// Relations
	Project    *Project       `gorm:"foreignKey:ProjectID" json:"-"`
	CreatedBy  User           `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedTo *User          `gorm:"foreignKey:AssignedToID" json:"-"`
	Team       *Team          `gorm:"foreignKey:TeamID" json:"-"`
	Materials  []TaskMaterial `gorm:"foreignKey:TaskID" json:"-"`
	WorkItems  []TaskWorkItem `gorm:"foreignKey:TaskID" json:"-"`
	Workers    []TaskWorker   `gorm:"foreignKey:TaskID" json:"-"`
}

// TaskMaterial is a material line item. UnitPrice is the catalog price at creation time.
type TaskMaterial struct {
	ID                uint64          `gorm:"primarykey" json:"id"`
	TaskID            uint64          `gorm:"not null;index" json:"task_id"`
	MaterialID        uint64          `gorm:"not null;index" json:"material_id"`
	Quantity          decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	IsCompanyProvided bool            `gorm:"not null" json:"is_company_provided"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_price"`

	Task     Task     `gorm:"foreignKey:TaskID" json:"-"`
	Material Material `gorm:"foreignKey:MaterialID" json:"-"`
}

// TaskWorkItem is a labor line item. UnitPrice is the catalog price at creation time.
type TaskWorkItem struct {
	ID         uint64          `gorm:"primarykey" json:"id"`
	TaskID     uint64          `gorm:"not null;index" json:"task_id"`
	WorkItemID uint64          `gorm:"not null;index" json:"work_item_id"`
	Quantity   decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_price"`

	Task     Task     `gorm:"foreignKey:TaskID" json:"-"`
	WorkItem WorkItem `gorm:"foreignKey:WorkItemID" json:"-"`
}

// TaskWorker links a worker to a task
type TaskWorker struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	TaskID     uint64    `gorm:"not null;uniqueIndex:idx_task_worker" json:"task_id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_task_worker" json:"user_id"`
	IsPrimary  bool      `gorm:"not null" json:"is_primary"`
	AssignedAt time.Time `gorm:"not null" json:"assigned_at"`

	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user"`
}

// RecomputeTotals derives material_cost and total_cost from the component costs
func (t *Task) RecomputeTotals() {
	t.MaterialCost = t.CompanyMaterialCost.Add(t.SelfMaterialCost)
	t.TotalCost = t.LaborCost.Add(t.MaterialCost)
}
