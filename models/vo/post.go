package vo

import (
	"time"

	"github.com/Xushengqwer/wall_service/models/entities"
)

// PostResponse 定义了帖子的响应数据结构
type PostResponse struct {
	ID            uint64    `json:"id"`             // 帖子ID
	WallID        uint64    `json:"wall_id"`        // 所属墙ID
	AuthorID      string    `json:"author_id"`      // 作者ID
	Content       string    `json:"content"`        // 正文
	MediaURLs     []string  `json:"media_urls"`     // 媒体URL列表
	IsPublic      bool      `json:"is_public"`      // 是否公开
	LikesCount    int64     `json:"likes_count"`    // 点赞数
	CommentsCount int64     `json:"comments_count"` // 评论数
	IsLiked       bool      `json:"is_liked"`       // 当前用户是否点赞（匿名访问恒为 false）
	CreatedAt     time.Time `json:"created_at"`     // 创建时间
}

// WallFeedPageVO 定义了墙信息流分页查询的响应结构。
// - 包含当前页的帖子列表和下一页的游标信息。
type WallFeedPageVO struct {
	Posts         []*PostResponse `json:"posts"`         // 当前页的帖子列表，created_at 降序
	NextCreatedAt *time.Time      `json:"nextCreatedAt"` // 下一页游标：创建时间，如果为nil表示没有下一页
	NextPostID    *uint64         `json:"nextPostId"`    // 下一页游标：帖子ID，如果为nil表示没有下一页
}

// LikeStatusVO 定义了点赞切换后的响应结构。
// - 返回以数据库为准的最终状态，前端用它校正乐观更新的本地增量。
type LikeStatusVO struct {
	PostID     uint64 `json:"post_id"`     // 帖子ID
	Liked      bool   `json:"liked"`       // 切换后的点赞状态
	LikesCount int64  `json:"likes_count"` // 切换后的点赞数
}

// NewPostResponseFromEntity 将帖子实体转换为响应VO。
func NewPostResponseFromEntity(post *entities.Post) *PostResponse {
	if post == nil {
		return nil
	}
	return &PostResponse{
		ID:            post.ID,
		WallID:        post.WallID,
		AuthorID:      post.AuthorID,
		Content:       post.Content,
		MediaURLs:     post.MediaURLs,
		IsPublic:      post.IsPublic,
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		CreatedAt:     post.CreatedAt,
	}
}

// MapPostsToResponsesVO 将帖子实体列表转换为响应VO列表。
// - likedSet 为当前用户点赞过的帖子 ID 集合，用于标注 IsLiked；匿名访问传 nil。
func MapPostsToResponsesVO(posts []*entities.Post, likedSet map[uint64]struct{}) []*PostResponse {
	if len(posts) == 0 {
		return []*PostResponse{} // 返回空切片而不是nil，便于前端处理
	}
	responses := make([]*PostResponse, 0, len(posts))
	for _, post := range posts {
		if post == nil { // 安全检查，尽管不太可能发生
			continue
		}
		resp := NewPostResponseFromEntity(post)
		if likedSet != nil {
			_, resp.IsLiked = likedSet[post.ID]
		}
		responses = append(responses, resp)
	}
	return responses
}
