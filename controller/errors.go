package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/wall_service/myErrors"
)

// respondServiceError 把服务层的哨兵错误统一映射为 HTTP 响应。
// - 停用的墙对外等同于未找到，所以 ErrWallInactive 也映射到 404。
// - msgPrefix 用于给错误消息加上操作上下文，例如 "发布帖子失败"。
func respondServiceError(c *gin.Context, err error, msgPrefix string) {
	switch {
	case errors.Is(err, myErrors.ErrInvalidContent),
		errors.Is(err, myErrors.ErrTooManyMedia),
		errors.Is(err, myErrors.ErrWallSlugExists):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, msgPrefix+": "+err.Error())
	case errors.Is(err, commonerrors.ErrUserNotLoggedIn):
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, msgPrefix+": 用户未登录")
	case errors.Is(err, myErrors.ErrForbidden):
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, msgPrefix+": "+err.Error())
	case errors.Is(err, commonerrors.ErrRepoNotFound),
		errors.Is(err, myErrors.ErrWallInactive):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, msgPrefix+": 资源不存在")
	default:
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, msgPrefix+": "+err.Error())
	}
}
