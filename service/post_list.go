package service

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/models/vo"
	"github.com/Xushengqwer/wall_service/myErrors"
	"github.com/Xushengqwer/wall_service/repo/mysql"
	"github.com/Xushengqwer/wall_service/repo/redis"
)

// PostListService 定义了墙信息流读取的业务逻辑接口。
// - 与 PostService 的写路径分离：信息流是纯读场景，有自己的缓存策略。
type PostListService interface {
	// ListWallFeed 按 (created_at, id) 游标拉取一面墙的公开帖子，新帖在前。
	// - 无游标的首个默认页优先走 Redis 整页缓存，未命中回源数据库并回填。
	// - 登录用户的每条帖子会标注其是否点赞过；匿名访问恒为未点赞。
	// - 墙不存在或已停用时返回 commonerrors.ErrRepoNotFound。
	ListWallFeed(ctx context.Context, wallID uint64, userID string, req *dto.ListPostsByWallRequest) (*vo.WallFeedPageVO, error)
}

// postListService 是 PostListService 接口的具体实现。
type postListService struct {
	postRepo   mysql.PostRepository     // 帖子的 MySQL 操作
	wallRepo   mysql.WallRepository     // 墙目录的 MySQL 操作
	likeRepo   mysql.PostLikeRepository // 点赞的 MySQL 操作
	feedCache  redis.FeedCache          // 信息流首页整页缓存
	likesCache redis.UserLikesCache     // 用户点赞集合缓存
	logger     *core.ZapLogger          // 日志记录器
}

// NewPostListService 是 postListService 的构造函数。
func NewPostListService(
	postRepo mysql.PostRepository,
	wallRepo mysql.WallRepository,
	likeRepo mysql.PostLikeRepository,
	feedCache redis.FeedCache,
	likesCache redis.UserLikesCache,
	logger *core.ZapLogger,
) PostListService {
	return &postListService{
		postRepo:   postRepo,
		wallRepo:   wallRepo,
		likeRepo:   likeRepo,
		feedCache:  feedCache,
		likesCache: likesCache,
		logger:     logger,
	}
}

// isDefaultFirstPage 判断请求是否是可以走整页缓存的形态。
// - 只有 "无游标 + 默认页大小" 的请求与缓存快照同形，其余一律回源。
func isDefaultFirstPage(req *dto.ListPostsByWallRequest) bool {
	return req.LastCreatedAt == nil && req.LastPostID == nil && req.PageSize == constant.DefaultFeedPageSize
}

// ListWallFeed 实现墙信息流的游标分页查询。
func (s *postListService) ListWallFeed(ctx context.Context, wallID uint64, userID string, req *dto.ListPostsByWallRequest) (*vo.WallFeedPageVO, error) {
	// 1. 确认墙存在且启用；停用的墙对外等同于不存在。
	wall, err := s.wallRepo.GetWallByID(ctx, wallID)
	if err != nil {
		return nil, err
	}
	if !wall.IsActive {
		s.logger.Debug("信息流请求命中停用的墙，按未找到处理", zap.Uint64("wallID", wallID))
		return nil, commonerrors.ErrRepoNotFound
	}

	// 2. 首个默认页尝试整页缓存。缓存内容不含个性化字段，点赞标注在第 4 步叠加。
	var page *vo.WallFeedPageVO
	if isDefaultFirstPage(req) {
		cached, cacheErr := s.feedCache.GetWallFeedFirstPage(ctx, wallID)
		switch {
		case cacheErr == nil:
			page = cached
		case errors.Is(cacheErr, myErrors.ErrCacheMiss):
			// 未命中，往下回源。
		default:
			// Redis 故障按未命中兜底，读路径不因缓存层失败而中断。
			s.logger.Warn("读取信息流首页缓存失败，回源数据库", zap.Error(cacheErr), zap.Uint64("wallID", wallID))
		}
	}

	// 3. 回源数据库，并在首个默认页时回填缓存。
	if page == nil {
		posts, nextCreatedAt, nextPostID, dbErr := s.postRepo.ListPostsByWallCursor(ctx, wallID, req)
		if dbErr != nil {
			s.logger.Error("信息流回源数据库查询失败", zap.Error(dbErr), zap.Uint64("wallID", wallID))
			return nil, dbErr
		}
		page = &vo.WallFeedPageVO{
			Posts:         vo.MapPostsToResponsesVO(posts, nil),
			NextCreatedAt: nextCreatedAt,
			NextPostID:    nextPostID,
		}
		if isDefaultFirstPage(req) {
			if setErr := s.feedCache.SetWallFeedFirstPage(ctx, wallID, page); setErr != nil {
				s.logger.Warn("回填信息流首页缓存失败", zap.Error(setErr), zap.Uint64("wallID", wallID))
			}
		}
	}

	// 4. 为登录用户叠加 "是否点赞" 标注。
	if userID != "" && len(page.Posts) > 0 {
		s.decorateLikes(ctx, userID, page)
	}
	return page, nil
}

// decorateLikes 在整页帖子上标注当前用户的点赞状态。
// - 优先查询 Redis 点赞集合；未命中时回源 MySQL 并异步重建集合。
// - 标注是尽力而为的：任何一层失败都按未点赞呈现，不影响信息流本身。
func (s *postListService) decorateLikes(ctx context.Context, userID string, page *vo.WallFeedPageVO) {
	postIDs := make([]uint64, 0, len(page.Posts))
	for _, p := range page.Posts {
		postIDs = append(postIDs, p.ID)
	}

	likedSet, err := s.likesCache.FilterLikedPostIDs(ctx, userID, postIDs)
	if err != nil {
		if !errors.Is(err, myErrors.ErrCacheMiss) {
			s.logger.Warn("查询点赞集合缓存失败，回源数据库标注", zap.Error(err), zap.String("userID", userID))
		}

		// 回源：只查当前页的点赞子集，快速完成标注。
		likedIDs, dbErr := s.likeRepo.ListLikedPostIDs(ctx, userID, postIDs)
		if dbErr != nil {
			s.logger.Warn("回源查询点赞子集失败，本页按未点赞呈现", zap.Error(dbErr), zap.String("userID", userID))
			return
		}
		likedSet = make(map[uint64]struct{}, len(likedIDs))
		for _, id := range likedIDs {
			likedSet[id] = struct{}{}
		}

		// 异步用点赞全集重建缓存，后续页免回源。
		if errors.Is(err, myErrors.ErrCacheMiss) {
			go s.rebuildLikesCache(userID)
		}
	}

	for _, p := range page.Posts {
		_, p.IsLiked = likedSet[p.ID]
	}
}

// rebuildLikesCache 从数据库加载用户点赞全集并重建 Redis 集合。
func (s *postListService) rebuildLikesCache(userID string) {
	bgCtx := context.Background()
	likes, err := s.likeRepo.ListLikesByUser(bgCtx, userID)
	if err != nil {
		s.logger.Warn("重建点赞集合缓存：加载点赞全集失败", zap.Error(err), zap.String("userID", userID))
		return
	}
	likedIDs := make([]uint64, 0, len(likes))
	for _, like := range likes {
		likedIDs = append(likedIDs, like.PostID)
	}
	if err := s.likesCache.RebuildUserLikes(bgCtx, userID, likedIDs); err != nil {
		s.logger.Warn("重建点赞集合缓存失败", zap.Error(err), zap.String("userID", userID))
	}
}
