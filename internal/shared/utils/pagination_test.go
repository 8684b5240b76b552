package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/civicpulse/internal/shared/constants"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"defaults", 0, 0, constants.DefaultPage, constants.DefaultPageSize, 0},
		{"negative", -3, -1, constants.DefaultPage, constants.DefaultPageSize, 0},
		{"capped", 2, 1000, 2, constants.MaxPageSize, constants.MaxPageSize},
		{"third page", 3, 10, 3, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/complaints?page=2&page_size=5", nil)

	p := ParsePagination(c)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.PageSize)

	c.Request = httptest.NewRequest("GET", "/api/complaints?page=abc", nil)
	p = ParsePagination(c)
	assert.Equal(t, constants.DefaultPage, p.Page)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 1, TotalPages(5, 0))
}
