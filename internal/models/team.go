package models

import (
	"time"
)

type Team struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Members  []TeamMember  `gorm:"foreignKey:TeamID" json:"-"`
	Tasks    []Task        `gorm:"foreignKey:TeamID" json:"-"`
	Projects []ProjectTeam `gorm:"foreignKey:TeamID" json:"-"`
}

type TeamMember struct {
	ID       uint64    `gorm:"primarykey" json:"id"`
	TeamID   uint64    `gorm:"not null;uniqueIndex:idx_team_member" json:"team_id"`
	UserID   uint64    `gorm:"not null;uniqueIndex:idx_team_member" json:"user_id"`
	IsLeader bool      `gorm:"not null" json:"is_leader"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`

	Team Team `gorm:"foreignKey:TeamID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user"`
}
