package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/myErrors"
)

// likedSetSentinel 是点赞集合中的哨兵成员。
// - 没有它，一个从未点过赞的用户的集合为空，Redis 会把空集合当作 Key 不存在，
//   缓存命中与未命中将无法区分。重建时总是写入哨兵，保证 Key 始终非空。
const likedSetSentinel = "__none__"

// UserLikesCache 定义了 "用户点赞过的帖子" 集合的缓存操作接口。
// - 信息流页面需要为每一页帖子标注当前用户是否点赞，该集合把逐帖探测
//   折叠为一次批量成员判断；MySQL 点赞表始终是事实来源。
type UserLikesCache interface {
	// FilterLikedPostIDs 在给定帖子 ID 集合内筛选出用户点赞过的子集。
	// - 缓存未命中（Key 不存在）时返回 myErrors.ErrCacheMiss，上层服务需回源并重建。
	FilterLikedPostIDs(ctx context.Context, userID string, postIDs []uint64) (map[uint64]struct{}, error)

	// RebuildUserLikes 以数据库中的点赞全集重建用户的点赞集合并设置 TTL。
	RebuildUserLikes(ctx context.Context, userID string, likedPostIDs []uint64) error

	// AddLike 在集合已存在时追加一个点赞成员（写透传）。
	// - 集合不存在时不做任何事，避免凭单个成员伪造出一个残缺的全集。
	AddLike(ctx context.Context, userID string, postID uint64) error

	// RemoveLike 从集合中移除一个点赞成员（写透传）。
	RemoveLike(ctx context.Context, userID string, postID uint64) error

	// InvalidateUserLikes 删除用户的点赞集合，服务内容清理流程。
	InvalidateUserLikes(ctx context.Context, userID string) error
}

type userLikesCache struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewUserLikesCache 是 userLikesCache 的构造函数。
func NewUserLikesCache(redisClient *redis.Client, logger *core.ZapLogger) UserLikesCache {
	return &userLikesCache{
		redisClient: redisClient,
		logger:      logger,
	}
}

func userLikedPostsKey(userID string) string {
	return constant.UserLikedPostsPrefix + userID
}

// FilterLikedPostIDs 实现点赞子集的批量成员判断。
func (c *userLikesCache) FilterLikedPostIDs(ctx context.Context, userID string, postIDs []uint64) (map[uint64]struct{}, error) {
	likedSet := make(map[uint64]struct{})
	if len(postIDs) == 0 {
		return likedSet, nil
	}

	key := userLikedPostsKey(userID)

	// 先确认 Key 存在，SMISMEMBER 对不存在的 Key 会返回全 false，与 "没点过赞" 无法区分。
	exists, err := c.redisClient.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Error("检查用户点赞集合是否存在失败", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("检查用户(ID: %s)点赞集合失败: %w", userID, err)
	}
	if exists == 0 {
		c.logger.Debug("用户点赞集合缓存未命中", zap.String("key", key))
		return nil, myErrors.ErrCacheMiss
	}

	members := make([]interface{}, len(postIDs))
	for i, id := range postIDs {
		members[i] = strconv.FormatUint(id, 10)
	}

	results, err := c.redisClient.SMIsMember(ctx, key, members...).Result()
	if err != nil {
		c.logger.Error("批量判断点赞集合成员失败",
			zap.Error(err),
			zap.String("key", key),
			zap.Int("memberCount", len(members)),
		)
		return nil, fmt.Errorf("批量判断用户(ID: %s)点赞成员失败: %w", userID, err)
	}

	for i, isMember := range results {
		if isMember {
			likedSet[postIDs[i]] = struct{}{}
		}
	}

	c.logger.Debug("点赞子集筛选完成",
		zap.String("key", key),
		zap.Int("requested", len(postIDs)),
		zap.Int("liked", len(likedSet)),
	)
	return likedSet, nil
}

// RebuildUserLikes 实现点赞集合的全量重建。
// - 使用 Pipeline 把删除、写入、设置 TTL 合并为一次往返。
func (c *userLikesCache) RebuildUserLikes(ctx context.Context, userID string, likedPostIDs []uint64) error {
	key := userLikedPostsKey(userID)

	members := make([]interface{}, 0, len(likedPostIDs)+1)
	members = append(members, likedSetSentinel)
	for _, id := range likedPostIDs {
		members = append(members, strconv.FormatUint(id, 10))
	}

	pipe := c.redisClient.Pipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, constant.UserLikedPostsTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("重建用户点赞集合失败",
			zap.Error(err),
			zap.String("key", key),
			zap.Int("likedCount", len(likedPostIDs)),
		)
		return fmt.Errorf("重建用户(ID: %s)点赞集合失败: %w", userID, err)
	}

	c.logger.Debug("用户点赞集合重建成功", zap.String("key", key), zap.Int("likedCount", len(likedPostIDs)))
	return nil
}

// AddLike 实现点赞成员的写透传。
func (c *userLikesCache) AddLike(ctx context.Context, userID string, postID uint64) error {
	key := userLikedPostsKey(userID)

	exists, err := c.redisClient.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Error("检查用户点赞集合是否存在失败", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("检查用户(ID: %s)点赞集合失败: %w", userID, err)
	}
	if exists == 0 {
		// 集合尚未重建，等首次信息流查询回源时一并建立。
		return nil
	}

	if err := c.redisClient.SAdd(ctx, key, strconv.FormatUint(postID, 10)).Err(); err != nil {
		c.logger.Error("向用户点赞集合追加成员失败",
			zap.Error(err),
			zap.String("key", key),
			zap.Uint64("postID", postID),
		)
		return fmt.Errorf("追加用户(ID: %s)点赞成员(帖子 %d)失败: %w", userID, postID, err)
	}
	return nil
}

// RemoveLike 实现点赞成员的移除。
// - SREM 对不存在的 Key 或成员是无操作，无需先探测存在性。
func (c *userLikesCache) RemoveLike(ctx context.Context, userID string, postID uint64) error {
	key := userLikedPostsKey(userID)
	if err := c.redisClient.SRem(ctx, key, strconv.FormatUint(postID, 10)).Err(); err != nil {
		c.logger.Error("从用户点赞集合移除成员失败",
			zap.Error(err),
			zap.String("key", key),
			zap.Uint64("postID", postID),
		)
		return fmt.Errorf("移除用户(ID: %s)点赞成员(帖子 %d)失败: %w", userID, postID, err)
	}
	return nil
}

// InvalidateUserLikes 实现点赞集合的删除。
func (c *userLikesCache) InvalidateUserLikes(ctx context.Context, userID string) error {
	key := userLikedPostsKey(userID)
	if err := c.redisClient.Del(ctx, key).Err(); err != nil {
		c.logger.Error("删除用户点赞集合失败", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("删除用户(ID: %s)点赞集合失败: %w", userID, err)
	}
	return nil
}
