package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// PostComment 评论实体
// - 使用场景: 附属于帖子的用户回复，按 created_at 升序（对话时间顺序）展示
// - 表名: post_comments (GORM 默认使用结构体名复数形式)
// - 生命周期: 只追加；除作者本人删除外不可变更，没有编辑功能
type PostComment struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 所属帖子ID，外键，关联 posts 表
	// - GORM 标签: index 加速按帖子拉取评论列表的查询
	PostID uint64 `gorm:"type:bigint;index;not null"`

	// 作者ID，UUID格式（36个字符）
	AuthorID string `gorm:"type:char(36);index;not null"`

	// 正文，必填
	// - 类型: text，服务层保证去除首尾空白后非空且不超过 2000 字符
	Content string `gorm:"type:text;not null"`
}
