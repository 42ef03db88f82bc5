package vo

import (
	"time"

	"github.com/Xushengqwer/wall_service/models/entities"
)

// CommentResponse 定义了评论的响应数据结构
type CommentResponse struct {
	ID        uint64    `json:"id"`         // 评论ID
	PostID    uint64    `json:"post_id"`    // 所属帖子ID
	AuthorID  string    `json:"author_id"`  // 作者ID
	Content   string    `json:"content"`    // 正文
	CreatedAt time.Time `json:"created_at"` // 创建时间
}

// ListCommentsResponse 定义评论列表的响应结构
type ListCommentsResponse struct {
	Comments []*CommentResponse `json:"comments"` // 评论列表，created_at 升序（对话时间顺序）
}

// NewCommentResponseFromEntity 将评论实体转换为响应VO。
func NewCommentResponseFromEntity(comment *entities.PostComment) *CommentResponse {
	if comment == nil {
		return nil
	}
	return &CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// MapCommentsToResponsesVO 将评论实体列表转换为响应VO列表。
func MapCommentsToResponsesVO(comments []*entities.PostComment) []*CommentResponse {
	if len(comments) == 0 {
		return []*CommentResponse{}
	}
	responses := make([]*CommentResponse, 0, len(comments))
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		responses = append(responses, NewCommentResponseFromEntity(comment))
	}
	return responses
}
