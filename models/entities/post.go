package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/Xushengqwer/go-common/models/entities"
)

// MediaURLs 是帖子携带的媒体 URL 有序列表，整体以 JSON 存储在单列中。
// - 媒体文件在前端上传到对象存储后，这里只保存其访问 URL，本服务不做任何上传
// - 数量上限 (4 个) 在服务层校验，数据库层不约束
type MediaURLs []string

// Value 实现 driver.Valuer，序列化为 JSON 后写入数据库。
func (m MediaURLs) Value() (driver.Value, error) {
	if m == nil {
		m = MediaURLs{}
	}
	return json.Marshal(m)
}

// Scan 实现 sql.Scanner，从数据库列反序列化。
func (m *MediaURLs) Scan(value interface{}) error {
	if value == nil {
		*m = MediaURLs{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("无法将 %T 扫描为 MediaURLs", value)
	}
	if len(data) == 0 {
		*m = MediaURLs{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Post 墙贴实体
// - 使用场景: 用户发布到某面墙上的内容项，信息流按 created_at 降序展示
// - 表名: posts (GORM 默认使用结构体名复数形式)
type Post struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 所属墙ID，外键，关联 walls 表
	// - GORM 标签: index 加速按墙拉取信息流的查询
	WallID uint64 `gorm:"type:bigint;index;not null"`

	// 作者ID，关联用户服务的用户，UUID格式（36个字符）
	// - GORM 标签: index 加速 "按作者清理内容" 等查询
	AuthorID string `gorm:"type:char(36);index;not null"`

	// 正文，必填，支持多行文本
	// - 类型: text，服务层保证去除首尾空白后非空且不超过 2000 字符
	Content string `gorm:"type:text;not null"`

	// 媒体 URL 列表，JSON 存储，最多 4 个
	MediaURLs MediaURLs `gorm:"type:json"`

	// 是否公开
	// - 信息流查询只返回公开帖子；非公开帖子仅作者可见（当前前端固定传 true）
	IsPublic bool `gorm:"type:tinyint(1);default:1;not null"`

	// 点赞数，冗余计数字段
	// - 不变式: 等于 post_likes 表中 post_id 指向本帖的行数
	// - 仅允许与点赞行变更同一事务内的相对增减，以及审计任务的重算写入
	LikesCount int64 `gorm:"type:bigint;default:0;not null"`

	// 评论数，冗余计数字段
	// - 不变式: 等于 post_comments 表中 post_id 指向本帖且未被删除的行数
	// - 维护规则与 LikesCount 相同
	CommentsCount int64 `gorm:"type:bigint;default:0;not null"`
}
