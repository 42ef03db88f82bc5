// dependencies/redis.go
package dependencies

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/wall_service/config"
)

// InitRedis 初始化 Redis 客户端并做一次连通性探测。
// - 点赞集合与信息流首页缓存都依赖这条连接。
func InitRedis(cfg *appConfig.WallConfig, logger *core.ZapLogger) (*redis.Client, error) {
	redisCfg := cfg.RedisConfig

	if redisCfg.Address == "" {
		return nil, fmt.Errorf("redis 地址 (redisConfig.address) 未配置")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Address,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
		PoolSize: redisCfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("无法连接到 Redis", zap.Error(err), zap.String("address", redisCfg.Address))
		return nil, fmt.Errorf("无法连接到 Redis (%s): %w", redisCfg.Address, err)
	}

	logger.Info("成功连接到 Redis",
		zap.String("address", redisCfg.Address),
		zap.Int("db", redisCfg.DB),
		zap.Int("poolSize", redisCfg.PoolSize),
	)
	return client, nil
}
