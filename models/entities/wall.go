package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// Wall 主题墙实体
// - 使用场景: 按主题聚合帖子的容器，由管理员创建与维护，前台按 display_order 升序展示
// - 表名: walls (GORM 默认使用结构体名复数形式)
type Wall struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// Slug，URL 安全的唯一标识，必填
	// - 类型: varchar(64)，作为前台路由 /wall/{slug} 的一部分
	// - GORM 标签: uniqueIndex 保证全表唯一，not null 表示非空
	Slug string `gorm:"type:varchar(64);uniqueIndex;not null"`

	// 墙名称，必填，最大长度100个字符
	Name string `gorm:"type:varchar(100);not null"`

	// 墙描述，支持多行文本
	// - 类型: text，展示在墙头部，长度不做数据库层限制
	Description string `gorm:"type:text"`

	// 图标，存储 emoji 或图标标识
	Icon string `gorm:"type:varchar(16)"`

	// 主题色，十六进制颜色值 (例如 "#6366f1")
	Color string `gorm:"type:varchar(16)"`

	// 是否启用
	// - 管理员通过停用实现 "软隐藏"，墙本身不会被删除
	// - 停用的墙不出现在前台列表，其信息流对外表现为未找到
	IsActive bool `gorm:"type:tinyint(1);default:1;not null"`

	// 展示顺序，前台列表按该字段升序排列
	DisplayOrder int `gorm:"type:int;default:0;not null"`

	// 帖子数，冗余计数字段
	// - 不变式: 等于 wall_id 指向本墙且未被删除的帖子行数
	// - 仅允许与帖子行变更同一事务内的相对增减 (posts_count = posts_count ± 1)，
	//   以及计数器审计任务的重算写入，业务代码不得整值覆盖
	PostsCount int64 `gorm:"type:bigint;default:0;not null"`

	// 创建者ID，管理员的用户ID，UUID格式（36个字符）
	CreatedBy string `gorm:"type:char(36);not null"`
}
