package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/models/vo"
	"github.com/Xushengqwer/wall_service/repo/mysql"
	"github.com/Xushengqwer/wall_service/repo/redis"
)

// FeedCacheRefreshTask 负责定时把每面启用中的墙的信息流首页刷进 Redis。
// - 首页承担绝大多数读流量，周期性预热让高峰期的缓存未命中只出现在冷门墙上。
// - 缓存内容不含个性化字段，"是否点赞" 由服务层在读取时叠加。
type FeedCacheRefreshTask struct {
	wallRepo  mysql.WallRepository // 墙目录的 MySQL 操作
	postRepo  mysql.PostRepository // 帖子的 MySQL 操作
	feedCache redis.FeedCache      // 信息流首页缓存
	cron      *cron.Cron           // cron V3 实例
	logger    *core.ZapLogger      // 日志记录器
}

// NewFeedCacheRefreshTask 初始化并启动信息流首页缓存刷新的定时任务。
func NewFeedCacheRefreshTask(
	wallRepo mysql.WallRepository,
	postRepo mysql.PostRepository,
	feedCache redis.FeedCache,
	logger *core.ZapLogger,
) *FeedCacheRefreshTask {
	cronV3 := cron.New()
	task := &FeedCacheRefreshTask{
		wallRepo:  wallRepo,
		postRepo:  postRepo,
		feedCache: feedCache,
		cron:      cronV3,
		logger:    logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *FeedCacheRefreshTask) startCronJob() {
	schedule := constant.FeedCacheCronSpec
	t.logger.Info("准备启动信息流首页缓存刷新定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("信息流首页缓存刷新任务开始执行...")
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		t.refreshAllWallFeeds(ctx)

		duration := time.Since(startTime)
		t.logger.Info("信息流首页缓存刷新任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		t.logger.Fatal("添加信息流首页缓存刷新 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("信息流首页缓存刷新定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// refreshAllWallFeeds 逐墙查询首页并写入缓存。
// - 单面墙失败只记录日志，不影响其余墙的刷新。
func (t *FeedCacheRefreshTask) refreshAllWallFeeds(ctx context.Context) {
	walls, err := t.wallRepo.ListActiveWalls(ctx)
	if err != nil {
		t.logger.Error("获取启用墙列表失败，本次刷新中止。", zap.Error(err))
		return
	}
	if len(walls) == 0 {
		t.logger.Info("当前没有启用中的墙，无需刷新缓存。")
		return
	}

	refreshed := 0
	for _, wall := range walls {
		req := &dto.ListPostsByWallRequest{PageSize: constant.DefaultFeedPageSize}
		posts, nextCreatedAt, nextPostID, listErr := t.postRepo.ListPostsByWallCursor(ctx, wall.ID, req)
		if listErr != nil {
			t.logger.Error("刷新信息流首页缓存：查询首页失败",
				zap.Error(listErr),
				zap.Uint64("wallID", wall.ID),
			)
			continue
		}

		page := &vo.WallFeedPageVO{
			Posts:         vo.MapPostsToResponsesVO(posts, nil),
			NextCreatedAt: nextCreatedAt,
			NextPostID:    nextPostID,
		}
		if setErr := t.feedCache.SetWallFeedFirstPage(ctx, wall.ID, page); setErr != nil {
			t.logger.Error("刷新信息流首页缓存：写入 Redis 失败",
				zap.Error(setErr),
				zap.Uint64("wallID", wall.ID),
			)
			continue
		}
		refreshed++
	}

	t.logger.Info("信息流首页缓存刷新完成",
		zap.Int("wallCount", len(walls)),
		zap.Int("refreshed", refreshed),
	)
}

// Stop 优雅地停止 cron 调度器。
func (t *FeedCacheRefreshTask) Stop() context.Context {
	t.logger.Info("正在停止信息流首页缓存刷新定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("信息流首页缓存刷新定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
