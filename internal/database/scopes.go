package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/xinwork/repair-order-api/internal/utils"
)

// Paginate applies pagination to a GORM query; a zero limit means no paging
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Contains filters column by a case-insensitive substring match; empty terms are ignored
func Contains(column, term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(term)+"%")
	}
}
