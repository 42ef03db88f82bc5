package middleware

import (
	"net/http"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/wall_service/constant"
)

// RoleContextMiddleware 把网关透传的用户角色从请求头搬进 gin.Context。
// - 与 go-common 的 UserContextMiddleware（负责 UserID）配套使用。
// - 角色缺失时存入空字符串，下游按普通用户处理。
func RoleContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constant.UserRoleKey, c.GetHeader(constant.UserRoleHeader))
		c.Next()
	}
}

// AdminAuthMiddleware 拦截管理接口：只有管理员角色可以通过。
// - 这是路由层的第一道拦截；服务层会凭显式传入的 role 再裁决一次。
func AdminAuthMiddleware(logger *core.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constant.UserRoleKey)
		if role != constant.RoleAdmin {
			logger.Warn("非管理员访问管理接口被拦截",
				zap.String("path", c.Request.URL.Path),
				zap.String("role", role),
			)
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}
