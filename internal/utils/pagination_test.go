package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/xinwork/repair-order-api/internal/constants"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  PaginationParams
	}{
		{"defaults", "", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
		{"explicit", "?page=3&limit=20", PaginationParams{Page: 3, Limit: 20, Offset: 40}},
		{"page below minimum", "?page=0&limit=10", PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{"limit above maximum", "?page=2&limit=5000", PaginationParams{Page: 2, Limit: constants.DefaultPageSize, Offset: constants.DefaultPageSize}},
		{"garbage", "?page=abc&limit=xyz", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/items"+tt.query, nil)

			assert.Equal(t, tt.want, GetPaginationParams(c))
		})
	}
}
