package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material is a catalog item priced per unit
type Material struct {
	ID          uint64          `gorm:"primarykey" json:"id"`
	Category    string          `gorm:"type:varchar(50);not null;index" json:"category"`
	Code        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"type:varchar(100);not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Unit        string          `gorm:"type:varchar(20);not null" json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	SupplyType  SupplyType      `gorm:"type:varchar(20);not null" json:"supply_type"`
	IsActive    bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	TaskUsages []TaskMaterial `gorm:"foreignKey:MaterialID" json:"-"`
}

// WorkItem is a catalog labor item
type WorkItem struct {
	ID                 uint64           `gorm:"primarykey" json:"id"`
	Category           WorkItemCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	ProjectNumber      string           `gorm:"type:varchar(20);uniqueIndex;not null" json:"project_number"`
	Name               string           `gorm:"type:varchar(100);not null;index" json:"name"`
	Description        string           `gorm:"type:text" json:"description"`
	Unit               string           `gorm:"type:varchar(20);not null" json:"unit"`
	SkilledLaborDays   decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"skilled_labor_days"`
	UnskilledLaborDays decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"unskilled_labor_days"`
	UnitPrice          decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	IsActive           bool             `gorm:"not null;index" json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`

	TaskUsages []TaskWorkItem `gorm:"foreignKey:WorkItemID" json:"-"`
}
