package entities

import "time"

// PostLike 点赞实体
// - 使用场景: 记录 "某用户点赞过某帖子" 的布尔成员关系
// - 表名: post_likes (GORM 默认使用结构体名复数形式)
// - 关系: (PostID, UserID) 复合唯一，数据库唯一索引是 "一人一赞" 不变式的唯一执行者，
//   应用层不加锁，并发冲突统一以唯一索引的裁决为准
// - 注意: 本实体不嵌入 BaseModel，点赞取消时必须物理删除——
//   软删除的残留行会继续占用唯一索引，导致用户无法再次点赞
type PostLike struct {
	// 自增主键，仅作为行标识，业务身份是 (PostID, UserID)
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// 帖子ID，唯一索引的第一列
	PostID uint64 `gorm:"type:bigint;uniqueIndex:uk_post_user;not null"`

	// 用户ID，唯一索引的第二列，UUID格式（36个字符）
	// - 额外的普通索引加速 "拉取用户点赞集合" 的查询
	UserID string `gorm:"type:char(36);uniqueIndex:uk_post_user;index;not null"`

	// 点赞时间
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
