package controller

import (
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/service"
)

// PostController 定义帖子控制器的结构体
type PostController struct {
	postService     service.PostService // 服务层接口，通过依赖注入传入
	postListService service.PostListService
}

// NewPostController 构造函数，用于创建 PostController 实例
func NewPostController(postService service.PostService, postListService service.PostListService) *PostController {
	return &PostController{
		postService:     postService,
		postListService: postListService,
	}
}

// CreatePost 处理发帖的 HTTP 请求
// @Summary      发布新帖子
// @Description  在指定的墙下发布一条帖子。媒体文件由前端直传对象存储，这里只接收访问 URL（最多 4 个）。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePostRequest true "发帖请求体"
// @Success      200 {object} vo.PostResponseWrapper "帖子发布成功"
// @Failure      400 {object} vo.BaseResponseWrapper "内容为空/超长或媒体数量超限"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未登录"
// @Failure      404 {object} vo.BaseResponseWrapper "目标墙不存在或已停用"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/posts [post]
func (ctrl *PostController) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	// 从 UserContextMiddleware 注入的上下文取用户身份
	userID := c.GetString(string(constants.UserIDKey))

	result, err := ctrl.postService.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err, "发布帖子失败")
		return
	}
	response.RespondSuccess(c, result, "帖子发布成功")
}

// GetPost 处理获取单个帖子的 HTTP 请求
// @Summary      获取指定帖子 (公开)
// @Description  通过帖子 ID 检索单条帖子（落地页场景）。非公开的帖子仅作者可见。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.PostResponseWrapper "帖子检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/posts/{post_id} [get]
func (ctrl *PostController) GetPost(c *gin.Context) {
	postIDStr := c.Param("post_id")
	postID, err := strconv.ParseUint(postIDStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	// 未登录用户 userID 为空字符串，响应中的点赞标注恒为 false
	userID := c.GetString(string(constants.UserIDKey))

	result, err := ctrl.postService.GetPost(c.Request.Context(), postID, userID)
	if err != nil {
		respondServiceError(c, err, "获取帖子失败")
		return
	}
	response.RespondSuccess(c, result, "帖子获取成功")
}

// DeletePost 处理删帖的 HTTP 请求
// @Summary      删除指定帖子
// @Description  软删除一条帖子及其点赞、评论。仅作者本人或管理员可操作。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "帖子删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未登录"
// @Failure      403 {object} vo.BaseResponseWrapper "非作者且非管理员"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/posts/{post_id} [delete]
func (ctrl *PostController) DeletePost(c *gin.Context) {
	postIDStr := c.Param("post_id")
	postID, err := strconv.ParseUint(postIDStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	userID := c.GetString(string(constants.UserIDKey))
	role := c.GetString(constant.UserRoleKey)

	if err := ctrl.postService.DeletePost(c.Request.Context(), postID, userID, role); err != nil {
		respondServiceError(c, err, "删除帖子失败")
		return
	}
	response.RespondSuccess[any](c, nil, "帖子删除成功")
}

// ListWallFeed 处理墙信息流的 HTTP 请求 (游标加载)
// @Summary      获取墙信息流 (公开, 游标加载)
// @Description  按 (创建时间, 帖子ID) 游标拉取一面墙的公开帖子，新帖在前。登录用户的每条帖子会标注是否点赞过。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        wall_id path uint64 true "墙 ID" Format(uint64)
// @Param        lastCreatedAt query string false "上一页最后一条记录的创建时间 (RFC3339格式)" format(date-time)
// @Param        lastPostId query uint64 false "上一页最后一条记录的帖子ID" format(uint64) minimum(1)
// @Param        pageSize query int true "每页数量" format(int32) minimum(1) maximum(100) default(20)
// @Success      200 {object} vo.WallFeedPageResponseWrapper "成功响应，包含帖子列表和下一页游标信息"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      404 {object} vo.BaseResponseWrapper "墙不存在或已停用"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/walls/{wall_id}/feed [get]
func (ctrl *PostController) ListWallFeed(c *gin.Context) {
	wallIDStr := c.Param("wall_id")
	wallID, err := strconv.ParseUint(wallIDStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的墙 ID 格式")
		return
	}

	var req dto.ListPostsByWallRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	userID := c.GetString(string(constants.UserIDKey))

	result, err := ctrl.postListService.ListWallFeed(c.Request.Context(), wallID, userID, &req)
	if err != nil {
		respondServiceError(c, err, "获取信息流失败")
		return
	}
	response.RespondSuccess(c, result, "信息流获取成功")
}

// RegisterRoutes 注册 PostController 的路由
func (ctrl *PostController) RegisterRoutes(group *gin.RouterGroup) {
	posts := group.Group("/posts")
	{
		posts.POST("", ctrl.CreatePost)          // POST /api/v1/wall/posts
		posts.GET("/:post_id", ctrl.GetPost)     // GET /api/v1/wall/posts/:post_id
		posts.DELETE("/:post_id", ctrl.DeletePost) // DELETE /api/v1/wall/posts/:post_id
	}
	group.GET("/walls/:wall_id/feed", ctrl.ListWallFeed) // GET /api/v1/wall/walls/:wall_id/feed
}
