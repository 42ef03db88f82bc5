package dto

// CreateWallRequest 定义了管理员创建主题墙的请求数据结构
// - 添加了 binding 标签用于输入验证
type CreateWallRequest struct {
	Slug         string `json:"slug" form:"slug" binding:"required,max=64"`          // URL 标识，必填，最大64字符
	Name         string `json:"name" form:"name" binding:"required,max=100"`         // 墙名称，必填，最大100字符
	Description  string `json:"description" form:"description" binding:"omitempty"`  // 描述，可选
	Icon         string `json:"icon" form:"icon" binding:"omitempty,max=16"`         // 图标，可选
	Color        string `json:"color" form:"color" binding:"omitempty,max=16"`       // 主题色，可选 (例如 "#6366f1")
	DisplayOrder int    `json:"display_order" form:"display_order" binding:"gte=0"`  // 展示顺序，大于等于0
}

// SetWallActiveRequest 定义了管理员启用/停用墙的请求数据结构
type SetWallActiveRequest struct {
	// IsActive 为目标状态；使用指针以区分 "未传" 与显式的 false
	IsActive *bool `json:"is_active" binding:"required"`
}
