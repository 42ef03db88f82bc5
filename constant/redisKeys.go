package constant

import "time"

// Redis Key 相关常量 (导出)
const (
	// --- Key 前缀 (用于动态生成 Key) ---

	// UserLikedPostsPrefix 是 "用户点赞过的帖子 ID 集合" 的 Key 前缀。
	// 每个用户对应一个 Set，成员为其点赞过的帖子 ID。
	// 用于信息流页面批量标注 "当前用户是否点赞" 以及 IsLiked 的快速路径。
	// 示例 Key: "user_liked_posts:550e8400-e29b-41d4-a716-446655440000"
	// Redis 类型: Set
	// 示例成员: "123", "456"
	UserLikedPostsPrefix = "user_liked_posts:"

	// WallFeedCachePrefix 是 "墙信息流首页缓存" 的 Key 前缀。
	// 每面活跃墙对应一个 String Key，值为首页帖子列表 VO 的 JSON 序列化结果。
	// 由定时任务周期性刷新，服务匿名访客的首屏加载。
	// 示例 Key: "wall_feed_page1:3" (其中 3 是 wallID)
	// Redis 类型: String
	WallFeedCachePrefix = "wall_feed_page1:"
)

// Redis 过期时间
const (
	// UserLikedPostsTTL 是用户点赞集合缓存的过期时间。
	// 集合在点赞/取消点赞时同步维护，TTL 仅兜底清理冷数据。
	UserLikedPostsTTL = 24 * time.Hour

	// WallFeedCacheTTL 是墙信息流首页缓存的过期时间。
	// 略大于刷新任务周期，保证任务失败一次不至于缓存完全失效抖动回源。
	WallFeedCacheTTL = 15 * time.Minute
)
