package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// 墙贴业务相关的哨兵错误。
// - 服务层返回这些错误，控制器通过 errors.Is 判断并映射到对应的 HTTP 状态码。
// - "未找到资源" 与 "未授权" 复用公共模块的 commonerrors.ErrRepoNotFound / ErrUnauthorized。
var (
	// ErrInvalidContent 表示内容校验失败（去除首尾空白后为空，或超出长度上限）。
	ErrInvalidContent = errors.New("内容为空或超出长度限制")

	// ErrTooManyMedia 表示帖子携带的媒体 URL 数量超过上限（最多 4 个）。
	ErrTooManyMedia = errors.New("帖子媒体数量超过上限")

	// ErrForbidden 表示调用者已认证但不是资源的所有者，无权执行该变更操作。
	ErrForbidden = errors.New("无权操作该资源")

	// ErrLikeAlreadyExists 表示点赞插入命中 (post_id, user_id) 唯一索引。
	// 服务层将其折叠为 "已点赞" 的无操作结果，不会透出给调用方。
	ErrLikeAlreadyExists = errors.New("点赞记录已存在")

	// ErrWallInactive 表示目标墙存在但已被管理员停用，对外等同于未找到。
	ErrWallInactive = errors.New("墙已停用")

	// ErrWallSlugExists 表示创建墙时 slug 命中唯一索引。
	ErrWallSlugExists = errors.New("墙 slug 已存在")
)
