package events

import "time"

// 本包定义 wall_service 与外部服务之间通过 Kafka 交换的事件结构。
// - 出站事件由 mq/producer 生产，供搜索/通知等下游服务消费
// - 入站事件由用户服务生产，mq/consumer 消费后清理注销用户的内容

// PostEventData 是帖子在事件中的载荷形态。
// - 刻意与数据库实体解耦：下游只依赖这里声明的字段，实体演进不破坏消费方
type PostEventData struct {
	ID        uint64   `json:"id"`
	WallID    uint64   `json:"wall_id"`
	AuthorID  string   `json:"author_id"`
	Content   string   `json:"content"`
	MediaURLs []string `json:"media_urls"`
	IsPublic  bool     `json:"is_public"`
	CreatedAt int64    `json:"created_at"` // Unix 毫秒时间戳
}

// WallPostCreatedEvent 帖子发布事件
type WallPostCreatedEvent struct {
	EventID   string        `json:"event_id"`  // 事件唯一ID (UUID)，消费方用于幂等去重
	Timestamp time.Time     `json:"timestamp"` // 事件产生时间
	Post      PostEventData `json:"post"`
}

// WallPostDeletedEvent 帖子删除事件
type WallPostDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	PostID    uint64    `json:"post_id"`
	WallID    uint64    `json:"wall_id"`
}

// UserDeletedEvent 用户注销事件 (入站，由用户服务生产)
// - 本服务消费后删除该用户的全部帖子/点赞/评论，并维护相关计数
type UserDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
}
