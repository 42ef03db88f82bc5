package dto

// AddCommentRequest 定义了发表评论的请求数据结构
type AddCommentRequest struct {
	Content string `json:"content" form:"content" binding:"required,max=2000"` // 正文，必填，最大2000字符
}
