package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/models/vo"
	"github.com/Xushengqwer/wall_service/myErrors"
)

// FeedCache 定义了墙信息流首页的缓存操作接口。
// - 首页（无游标的第一页）承担一面墙的绝大多数读流量，缓存整页序列化结果，
//   由定时任务周期性刷新；命中时完全不触达 MySQL。
// - 缓存内容不含任何按用户个性化的字段，"是否点赞" 标注由服务层在缓存之上叠加。
type FeedCache interface {
	// GetWallFeedFirstPage 获取指定墙的信息流首页快照。
	// - 缓存未命中时返回 myErrors.ErrCacheMiss，上层服务需回源数据库。
	GetWallFeedFirstPage(ctx context.Context, wallID uint64) (*vo.WallFeedPageVO, error)

	// SetWallFeedFirstPage 写入信息流首页快照并设置 TTL。
	SetWallFeedFirstPage(ctx context.Context, wallID uint64, page *vo.WallFeedPageVO) error

	// InvalidateWallFeed 删除指定墙的首页快照。
	// - 删帖后调用，避免已删除的帖子在 TTL 内继续出现在首页。
	InvalidateWallFeed(ctx context.Context, wallID uint64) error
}

type feedCache struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewFeedCache 是 feedCache 的构造函数。
func NewFeedCache(redisClient *redis.Client, logger *core.ZapLogger) FeedCache {
	return &feedCache{
		redisClient: redisClient,
		logger:      logger,
	}
}

func wallFeedKey(wallID uint64) string {
	return fmt.Sprintf("%s%d", constant.WallFeedCachePrefix, wallID)
}

// GetWallFeedFirstPage 实现首页快照的读取。
func (c *feedCache) GetWallFeedFirstPage(ctx context.Context, wallID uint64) (*vo.WallFeedPageVO, error) {
	key := wallFeedKey(wallID)

	jsonData, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.Debug("墙信息流首页缓存未命中", zap.String("key", key), zap.Uint64("wallID", wallID))
			return nil, myErrors.ErrCacheMiss
		}
		c.logger.Error("获取墙信息流首页缓存失败",
			zap.Error(err),
			zap.String("key", key),
			zap.Uint64("wallID", wallID),
		)
		return nil, fmt.Errorf("获取墙(ID: %d)信息流首页缓存 (key: %s) 失败: %w", wallID, key, err)
	}

	var page vo.WallFeedPageVO
	if jsonErr := json.Unmarshal([]byte(jsonData), &page); jsonErr != nil {
		c.logger.Error("反序列化墙信息流首页缓存数据失败",
			zap.Error(jsonErr),
			zap.String("key", key),
			zap.Uint64("wallID", wallID),
		)
		return nil, fmt.Errorf("解析墙(ID: %d)信息流首页缓存 (key: %s) 数据失败: %w", wallID, key, jsonErr)
	}

	c.logger.Debug("墙信息流首页缓存命中", zap.String("key", key), zap.Uint64("wallID", wallID))
	return &page, nil
}

// SetWallFeedFirstPage 实现首页快照的写入。
func (c *feedCache) SetWallFeedFirstPage(ctx context.Context, wallID uint64, page *vo.WallFeedPageVO) error {
	key := wallFeedKey(wallID)

	jsonData, err := json.Marshal(page)
	if err != nil {
		c.logger.Error("序列化墙信息流首页失败", zap.Error(err), zap.Uint64("wallID", wallID))
		return fmt.Errorf("序列化墙(ID: %d)信息流首页失败: %w", wallID, err)
	}

	if err := c.redisClient.Set(ctx, key, jsonData, constant.WallFeedCacheTTL).Err(); err != nil {
		c.logger.Error("写入墙信息流首页缓存失败",
			zap.Error(err),
			zap.String("key", key),
			zap.Uint64("wallID", wallID),
		)
		return fmt.Errorf("写入墙(ID: %d)信息流首页缓存 (key: %s) 失败: %w", wallID, key, err)
	}

	c.logger.Debug("墙信息流首页缓存已刷新",
		zap.String("key", key),
		zap.Uint64("wallID", wallID),
		zap.Int("postCount", len(page.Posts)),
	)
	return nil
}

// InvalidateWallFeed 实现首页快照的删除。
func (c *feedCache) InvalidateWallFeed(ctx context.Context, wallID uint64) error {
	key := wallFeedKey(wallID)
	if err := c.redisClient.Del(ctx, key).Err(); err != nil {
		c.logger.Error("删除墙信息流首页缓存失败", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("删除墙(ID: %d)信息流首页缓存 (key: %s) 失败: %w", wallID, key, err)
	}
	return nil
}
