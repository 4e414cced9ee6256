package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string    `gorm:"type:varchar(100)" json:"full_name"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	CreatedTasks    []Task       `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedTasks   []Task       `gorm:"foreignKey:AssignedToID" json:"-"`
	TeamMemberships []TeamMember `gorm:"foreignKey:UserID" json:"-"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
