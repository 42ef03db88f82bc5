package dto

import "time"

// CreatePostRequest 定义了发布帖子的请求数据结构
// - 媒体文件由前端直传对象存储，这里只接收已上传完成的访问 URL
// - 添加了 binding 标签用于输入验证；"去空白后非空" 这类规则在服务层二次校验
type CreatePostRequest struct {
	WallID    uint64   `json:"wall_id" form:"wall_id" binding:"required,gt=0"`          // 目标墙ID，必填
	Content   string   `json:"content" form:"content" binding:"required,max=2000"`      // 正文，必填，最大2000字符
	MediaURLs []string `json:"media_urls" form:"media_urls" binding:"omitempty,max=4,dive,url"` // 媒体URL列表，可选，最多4个
	IsPublic  *bool    `json:"is_public" form:"is_public" binding:"omitempty"`          // 是否公开，可选，缺省为公开
}

// ListPostsByWallRequest 定义了按墙拉取信息流的请求数据结构（游标加载）
// - 游标为 (created_at, id) 双字段，处理同一时刻多帖的并列
type ListPostsByWallRequest struct {
	LastCreatedAt *time.Time `json:"lastCreatedAt" form:"lastCreatedAt" time_format:"2006-01-02T15:04:05Z07:00"` // 上一页最后一条的创建时间，可选
	LastPostID    *uint64    `json:"lastPostId" form:"lastPostId" binding:"omitempty,gt=0"`                      // 上一页最后一条的帖子ID，可选
	PageSize      int        `json:"pageSize" form:"pageSize" binding:"required,gt=0,lte=100"`                   // 每页数量，必填
}
