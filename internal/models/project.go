package models

import (
	"time"
)

type Project struct {
	ID           uint64        `gorm:"primarykey" json:"id"`
	Title        string        `gorm:"type:varchar(200);not null;index" json:"title"`
	Description  string        `gorm:"type:text" json:"description"`
	Location     string        `gorm:"type:varchar(255)" json:"location"`
	ContactName  string        `gorm:"type:varchar(100)" json:"contact_name"`
	ContactPhone string        `gorm:"type:varchar(30)" json:"contact_phone"`
	Status       ProjectStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Priority     int           `gorm:"not null" json:"priority"`
	CreatedByID  uint64        `gorm:"not null;index" json:"created_by_id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	CompletedAt  *time.Time    `json:"completed_at"`

	// Relations
	CreatedBy User          `gorm:"foreignKey:CreatedByID" json:"-"`
	Tasks     []Task        `gorm:"foreignKey:ProjectID" json:"-"`
	Teams     []ProjectTeam `gorm:"foreignKey:ProjectID" json:"-"`
}

// ProjectTeam links a team to a project it works on
type ProjectTeam struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ProjectID  uint64    `gorm:"not null;uniqueIndex:idx_project_team" json:"project_id"`
	TeamID     uint64    `gorm:"not null;uniqueIndex:idx_project_team" json:"team_id"`
	AssignedAt time.Time `gorm:"not null" json:"assigned_at"`

	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
	Team    Team    `gorm:"foreignKey:TeamID" json:"team"`
}
