package vo

import (
	"time"

	"github.com/Xushengqwer/wall_service/models/entities"
)

// WallResponse 定义了主题墙的响应数据结构
type WallResponse struct {
	ID           uint64    `json:"id"`            // 墙ID
	Slug         string    `json:"slug"`          // URL 标识
	Name         string    `json:"name"`          // 墙名称
	Description  string    `json:"description"`   // 描述
	Icon         string    `json:"icon"`          // 图标
	Color        string    `json:"color"`         // 主题色
	IsActive     bool      `json:"is_active"`     // 是否启用
	DisplayOrder int       `json:"display_order"` // 展示顺序
	PostsCount   int64     `json:"posts_count"`   // 帖子数
	CreatedBy    string    `json:"created_by"`    // 创建者ID
	CreatedAt    time.Time `json:"created_at"`    // 创建时间
}

// ListWallsResponse 定义墙列表的响应结构
type ListWallsResponse struct {
	Walls []*WallResponse `json:"walls"` // 墙列表，按 display_order 升序
}

// NewWallResponseFromEntity 将墙实体转换为响应VO。
func NewWallResponseFromEntity(wall *entities.Wall) *WallResponse {
	if wall == nil {
		return nil
	}
	return &WallResponse{
		ID:           wall.ID,
		Slug:         wall.Slug,
		Name:         wall.Name,
		Description:  wall.Description,
		Icon:         wall.Icon,
		Color:        wall.Color,
		IsActive:     wall.IsActive,
		DisplayOrder: wall.DisplayOrder,
		PostsCount:   wall.PostsCount,
		CreatedBy:    wall.CreatedBy,
		CreatedAt:    wall.CreatedAt,
	}
}

// MapWallsToResponsesVO 将墙实体列表转换为响应VO列表。
func MapWallsToResponsesVO(walls []*entities.Wall) []*WallResponse {
	if len(walls) == 0 {
		return []*WallResponse{} // 返回空切片而不是nil，便于前端处理
	}
	responses := make([]*WallResponse, 0, len(walls))
	for _, wall := range walls {
		if wall == nil { // 安全检查，尽管不太可能发生
			continue
		}
		responses = append(responses, NewWallResponseFromEntity(wall))
	}
	return responses
}
