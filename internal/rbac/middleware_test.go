package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"knowledge-network/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveWithRole(role string, mw gin.HandlerFunc) int {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		if role != "" {
			ctx := auth.WithIdentity(c.Request.Context(), auth.Identity{ID: "u", Name: "n", Role: role})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}, mw, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w.Code
}

func TestRequireReviewer(t *testing.T) {
	for _, role := range []string{RoleReviewer, RoleKnowledgeChampion, RoleSeniorConsultant, RoleAdmin} {
		assert.Equal(t, http.StatusOK, serveWithRole(role, RequireReviewer()), role)
	}
	for _, role := range []string{RoleConsultant, RoleJuniorConsultant, "Intern"} {
		assert.Equal(t, http.StatusForbidden, serveWithRole(role, RequireReviewer()), role)
	}
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveWithRole(RoleAdmin, RequireAdmin()))
	assert.Equal(t, http.StatusForbidden, serveWithRole(RoleReviewer, RequireAdmin()))
}

func TestRequireAnyRole_NoIdentity(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serveWithRole("", RequireAnyRole(RoleConsultant)))
}

func TestCanReview(t *testing.T) {
	assert.True(t, CanReview(RoleKnowledgeChampion))
	assert.False(t, CanReview(RoleJuniorConsultant))
	assert.False(t, CanReview(""))
	assert.True(t, IsKnownRole(RoleJuniorConsultant))
	assert.False(t, IsKnownRole("root"))
}
