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

// WallController 定义主题墙控制器的结构体
type WallController struct {
	wallService service.WallService // 服务层接口，通过依赖注入传入
}

// NewWallController 构造函数，用于创建 WallController 实例
func NewWallController(wallService service.WallService) *WallController {
	return &WallController{
		wallService: wallService,
	}
}

// ListWalls 获取启用中的墙列表
// @Summary      获取墙列表 (公开)
// @Description  返回所有启用中的主题墙，按展示顺序排列，用于前台导航。
// @Tags         walls (主题墙)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.ListWallsResponseWrapper "成功响应，包含墙列表"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/walls [get]
func (ctrl *WallController) ListWalls(c *gin.Context) {
	result, err := ctrl.wallService.ListActiveWalls(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "获取墙列表失败")
		return
	}
	response.RespondSuccess(c, result, "墙列表获取成功")
}

// GetWallBySlug 根据 slug 获取单面墙
// @Summary      获取指定墙 (公开)
// @Description  通过 URL 标识 (slug) 检索单面墙的信息。停用的墙返回 404。
// @Tags         walls (主题墙)
// @Accept       json
// @Produce      json
// @Param        slug path string true "墙的 URL 标识" maxLength(64)
// @Success      200 {object} vo.WallResponseWrapper "墙信息检索成功"
// @Failure      404 {object} vo.BaseResponseWrapper "墙不存在或已停用"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/walls/by-slug/{slug} [get]
func (ctrl *WallController) GetWallBySlug(c *gin.Context) {
	slug := c.Param("slug")
	result, err := ctrl.wallService.GetWallBySlug(c.Request.Context(), slug)
	if err != nil {
		respondServiceError(c, err, "获取墙信息失败")
		return
	}
	response.RespondSuccess(c, result, "墙信息获取成功")
}

// CreateWall 管理员创建新墙
// @Summary      创建主题墙 (管理员)
// @Description  使用提供的 slug、名称等信息创建一面新的主题墙，新墙默认启用。
// @Tags         walls (主题墙)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateWallRequest true "创建墙请求体"
// @Success      200 {object} vo.WallResponseWrapper "墙创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载或 slug 已存在"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未登录"
// @Failure      403 {object} vo.BaseResponseWrapper "需要管理员权限"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/admin/walls [post]
func (ctrl *WallController) CreateWall(c *gin.Context) {
	var req dto.CreateWallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	// 从网关中间件注入的上下文取操作者身份
	operatorID := c.GetString(string(constants.UserIDKey))
	role := c.GetString(constant.UserRoleKey)

	result, err := ctrl.wallService.CreateWall(c.Request.Context(), &req, operatorID, role)
	if err != nil {
		respondServiceError(c, err, "创建墙失败")
		return
	}
	response.RespondSuccess(c, result, "墙创建成功")
}

// ListAllWalls 管理员获取全部墙
// @Summary      获取全部墙列表 (管理员)
// @Description  返回包括已停用在内的全部主题墙，供管理后台展示。
// @Tags         walls (主题墙)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.ListWallsResponseWrapper "成功响应，包含全部墙"
// @Failure      403 {object} vo.BaseResponseWrapper "需要管理员权限"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/admin/walls [get]
func (ctrl *WallController) ListAllWalls(c *gin.Context) {
	role := c.GetString(constant.UserRoleKey)
	result, err := ctrl.wallService.ListAllWalls(c.Request.Context(), role)
	if err != nil {
		respondServiceError(c, err, "获取全部墙列表失败")
		return
	}
	response.RespondSuccess(c, result, "全部墙列表获取成功")
}

// SetWallActive 管理员启用/停用墙
// @Summary      设置墙的启用状态 (管理员)
// @Description  启用或停用指定的墙。停用只影响可见性，墙下帖子数据保留。
// @Tags         walls (主题墙)
// @Accept       json
// @Produce      json
// @Param        wall_id path uint64 true "墙 ID" Format(uint64)
// @Param        request body dto.SetWallActiveRequest true "目标状态"
// @Success      200 {object} vo.BaseResponseWrapper "状态设置成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的墙 ID 或请求体"
// @Failure      403 {object} vo.BaseResponseWrapper "需要管理员权限"
// @Failure      404 {object} vo.BaseResponseWrapper "墙不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/wall/admin/walls/{wall_id}/active [put]
func (ctrl *WallController) SetWallActive(c *gin.Context) {
	wallIDStr := c.Param("wall_id")
	wallID, err := strconv.ParseUint(wallIDStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的墙 ID 格式")
		return
	}

	var req dto.SetWallActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	role := c.GetString(constant.UserRoleKey)
	if err := ctrl.wallService.SetWallActive(c.Request.Context(), wallID, *req.IsActive, role); err != nil {
		respondServiceError(c, err, "设置墙状态失败")
		return
	}
	response.RespondSuccess[any](c, nil, "墙状态设置成功")
}

// RegisterRoutes 注册 WallController 的公开路由
func (ctrl *WallController) RegisterRoutes(group *gin.RouterGroup) {
	walls := group.Group("/walls")
	{
		walls.GET("", ctrl.ListWalls)                  // GET /api/v1/wall/walls
		walls.GET("/by-slug/:slug", ctrl.GetWallBySlug) // GET /api/v1/wall/walls/by-slug/:slug
	}
}

// RegisterAdminRoutes 注册 WallController 的管理路由（需要管理员中间件）
func (ctrl *WallController) RegisterAdminRoutes(group *gin.RouterGroup) {
	walls := group.Group("/walls")
	{
		walls.POST("", ctrl.CreateWall)                     // POST /api/v1/wall/admin/walls
		walls.GET("", ctrl.ListAllWalls)                    // GET /api/v1/wall/admin/walls
		walls.PUT("/:wall_id/active", ctrl.SetWallActive)   // PUT /api/v1/wall/admin/walls/:wall_id/active
	}
}
