package controller

import (
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/wall_service/service"
)

// LikeController 定义点赞控制器的结构体
type LikeController struct {
	likeService service.LikeService // 服务层接口，通过依赖注入传入
}

// NewLikeController 构造函数，用于创建 LikeController 实例
func NewLikeController(likeService service.LikeService) *LikeController {
	return &LikeController{
		likeService: likeService,
	}
}

// ToggleLike 处理切换点赞状态的 HTTP 请求
// @Summary      切换帖子点赞状态
// @Description  已点赞则取消，未点赞则点赞。接口幂等安全，重复请求返回数据库中的最终状态。
// @Tags         likes (点赞)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.LikeStatusResponseWrapper "切换成功，返回最终点赞状态与计数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未登录"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/posts/{post_id}/like [post]
func (ctrl *LikeController) ToggleLike(c *gin.Context) {
	postIDStr := c.Param("post_id")
	postID, err := strconv.ParseUint(postIDStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	userID := c.GetString(string(constants.UserIDKey))

	result, err := ctrl.likeService.ToggleLike(c.Request.Context(), postID, userID)
	if err != nil {
		respondServiceError(c, err, "切换点赞状态失败")
		return
	}
	response.RespondSuccess(c, result, "点赞状态切换成功")
}

// GetLikeStatus 处理查询点赞状态的 HTTP 请求
// @Summary      查询帖子点赞状态 (公开)
// @Description  返回当前用户对帖子的点赞状态与最新点赞数。未登录时点赞状态恒为 false。
// @Tags         likes (点赞)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.LikeStatusResponseWrapper "查询成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/posts/{post_id}/like [get]
func (ctrl *LikeController) GetLikeStatus(c *gin.Context) {
	postIDStr := c.Param("post_id")
	postID, err := strconv.ParseUint(postIDStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	userID := c.GetString(string(constants.UserIDKey))

	result, err := ctrl.likeService.GetLikeStatus(c.Request.Context(), postID, userID)
	if err != nil {
		respondServiceError(c, err, "查询点赞状态失败")
		return
	}
	response.RespondSuccess(c, result, "点赞状态查询成功")
}

// RegisterRoutes 注册 LikeController 的路由
func (ctrl *LikeController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/posts/:post_id/like", ctrl.ToggleLike)   // POST /api/v1/wall/posts/:post_id/like
	group.GET("/posts/:post_id/like", ctrl.GetLikeStatus) // GET /api/v1/wall/posts/:post_id/like
}
