package constant

// 服务标识，用于链路追踪与日志
const (
	ServiceName    = "wall_service"
	ServiceVersion = "1.0.0"
)

// 定时任务调度表达式 (robfig/cron 标准 5 字段格式)
const (
	// CounterAuditCronSpec 是计数器审计任务的调度周期。
	// 任务会从源数据行重算 likes_count / comments_count / posts_count，
	// 修复因计数更新与行变更之间崩溃等异常情况产生的漂移。
	CounterAuditCronSpec = "*/30 * * * *"

	// FeedCacheCronSpec 是墙信息流首页缓存刷新任务的调度周期。
	FeedCacheCronSpec = "*/5 * * * *"
)

// 业务上限
const (
	// MaxPostContentLength 是帖子正文的最大字符数 (按 rune 计)。
	MaxPostContentLength = 2000

	// MaxCommentContentLength 是评论正文的最大字符数 (按 rune 计)。
	MaxCommentContentLength = 2000

	// MaxPostMediaURLs 是单个帖子允许携带的媒体 URL 数量上限。
	MaxPostMediaURLs = 4

	// DefaultFeedPageSize 是信息流分页的默认/缓存页大小。
	DefaultFeedPageSize = 20
)

// 网关透传的用户角色
const (
	// UserRoleHeader 是网关在请求头中透传用户角色所使用的 Header 名。
	UserRoleHeader = "X-User-Role"

	// UserRoleKey 是角色在 gin.Context 中的存储键。
	UserRoleKey = "userRole"

	// RoleAdmin 是管理员角色的取值，墙目录的管理操作要求该角色。
	RoleAdmin = "admin"
)
