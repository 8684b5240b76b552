package authorization

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/civicpulse/internal/shared/constants"
)

func TestParseUserRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseUserRole("admin"))
	assert.Equal(t, RoleCitizen, ParseUserRole("citizen"))
	assert.Equal(t, RoleCitizen, ParseUserRole("superuser"))
}

func TestCanAccessComplaint(t *testing.T) {
	assert.True(t, CanAccessComplaint(9, RoleAdmin, 1))
	assert.True(t, CanAccessComplaint(1, RoleCitizen, 1))
	assert.False(t, CanAccessComplaint(2, RoleCitizen, 1))
	assert.False(t, CanAccessComplaint(0, RoleCitizen, 0))
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"citizen rejected", "citizen", http.StatusForbidden},
		{"anonymous rejected", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", func(c *gin.Context) {
				if tt.role != "" {
					c.Set(constants.ContextKeyUserRole, tt.role)
				}
				c.Next()
			}, RequireAdmin(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
