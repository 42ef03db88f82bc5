package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/wall_service/constant"
)

func newAdminTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	require.NoError(t, err)

	router := gin.New()
	router.Use(RoleContextMiddleware())
	admin := router.Group("/admin", AdminAuthMiddleware(logger))
	admin.GET("/walls", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAdminAuthMiddleware_AllowsAdmin(t *testing.T) {
	router := newAdminTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/walls", nil)
	req.Header.Set(constant.UserRoleHeader, constant.RoleAdmin)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuthMiddleware_RejectsNonAdmin(t *testing.T) {
	router := newAdminTestRouter(t)

	for _, role := range []string{"", "user", "Admin"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/walls", nil)
		if role != "" {
			req.Header.Set(constant.UserRoleHeader, role)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equalf(t, http.StatusForbidden, w.Code, "角色 %q 不应通过管理拦截", role)
	}
}

func TestRoleContextMiddleware_StoresHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RoleContextMiddleware())

	var captured string
	router.GET("/probe", func(c *gin.Context) {
		captured = c.GetString(constant.UserRoleKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(constant.UserRoleHeader, "user")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "user", captured)
}
