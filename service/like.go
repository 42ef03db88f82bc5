package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/wall_service/models/entities"
	"github.com/Xushengqwer/wall_service/models/vo"
	"github.com/Xushengqwer/wall_service/myErrors"
	"github.com/Xushengqwer/wall_service/repo/mysql"
	"github.com/Xushengqwer/wall_service/repo/redis"
)

// LikeService 定义了点赞账本的业务逻辑接口。
// - "一人一赞" 由数据库 (post_id, user_id) 唯一索引裁决；likes_count 是
//   同事务维护的冗余计数，点赞表才是事实来源。
type LikeService interface {
	// ToggleLike 切换当前用户对帖子的点赞状态：已点赞则取消，未点赞则点赞。
	// - 并发重复点赞命中唯一索引时折叠为 "已点赞" 的无操作结果，不报错。
	// - 返回以数据库为准的最终状态，前端据此校正乐观更新。
	ToggleLike(ctx context.Context, postID uint64, userID string) (*vo.LikeStatusVO, error)

	// GetLikeStatus 查询当前用户对帖子的点赞状态与最新点赞数。
	GetLikeStatus(ctx context.Context, postID uint64, userID string) (*vo.LikeStatusVO, error)
}

// likeService 是 LikeService 接口的具体实现。
type likeService struct {
	txManager  mysql.TransactionManager // 事务管理
	likeRepo   mysql.PostLikeRepository // 点赞的 MySQL 操作
	postRepo   mysql.PostRepository     // 帖子的 MySQL 操作
	likesCache redis.UserLikesCache     // 用户点赞集合缓存
	logger     *core.ZapLogger          // 日志记录器
}

// NewLikeService 是 likeService 的构造函数。
func NewLikeService(
	txManager mysql.TransactionManager,
	likeRepo mysql.PostLikeRepository,
	postRepo mysql.PostRepository,
	likesCache redis.UserLikesCache,
	logger *core.ZapLogger,
) LikeService {
	return &likeService{
		txManager:  txManager,
		likeRepo:   likeRepo,
		postRepo:   postRepo,
		likesCache: likesCache,
		logger:     logger,
	}
}

// ToggleLike 实现点赞状态的切换。
//
// 事务内流程（删除优先）:
//  1. 先尝试删除点赞行；确实删到了说明此前已点赞，同事务 likes_count -1。
//  2. 没删到则插入点赞行，同事务 likes_count +1。
//  3. 插入命中唯一索引说明并发请求已抢先点赞，折叠为 "已点赞" 返回，
//     不做计数增量——裁决权完全交给唯一索引，本层不做先查再写的竞态判断。
func (s *likeService) ToggleLike(ctx context.Context, postID uint64, userID string) (*vo.LikeStatusVO, error) {
	if userID == "" {
		return nil, commonerrors.ErrUserNotLoggedIn
	}

	// 帖子必须存在且未删除；对已删除帖子的点赞一律拒绝。
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("点赞前获取帖子失败", zap.Error(err), zap.Uint64("postID", postID))
		}
		return nil, err
	}
	if !post.IsPublic && post.AuthorID != userID {
		return nil, commonerrors.ErrRepoNotFound
	}

	var liked bool
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		deleted, repoErr := s.likeRepo.DeleteLike(ctx, tx, postID, userID)
		if repoErr != nil {
			return fmt.Errorf("删除点赞记录失败: %w", repoErr)
		}
		if deleted {
			liked = false
			if repoErr = s.postRepo.IncrementLikesCount(ctx, tx, postID, -1); repoErr != nil {
				return fmt.Errorf("更新点赞计数失败: %w", repoErr)
			}
			return nil
		}

		insertErr := s.likeRepo.InsertLike(ctx, tx, &entities.PostLike{PostID: postID, UserID: userID})
		if insertErr != nil {
			if errors.Is(insertErr, myErrors.ErrLikeAlreadyExists) {
				// 并发请求已抢先插入，最终状态就是已点赞，无需计数增量。
				liked = true
				return nil
			}
			return fmt.Errorf("插入点赞记录失败: %w", insertErr)
		}
		liked = true
		if repoErr = s.postRepo.IncrementLikesCount(ctx, tx, postID, 1); repoErr != nil {
			return fmt.Errorf("更新点赞计数失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("切换点赞状态事务失败",
			zap.Error(err),
			zap.Uint64("postID", postID),
			zap.String("userID", userID),
		)
		return nil, err
	}

	// 事务成功后写透传点赞集合缓存（尽力而为，失败只影响标注的时效）。
	go func(liked bool, pID uint64, uID string) {
		bgCtx := context.Background()
		var cacheErr error
		if liked {
			cacheErr = s.likesCache.AddLike(bgCtx, uID, pID)
		} else {
			cacheErr = s.likesCache.RemoveLike(bgCtx, uID, pID)
		}
		if cacheErr != nil {
			s.logger.Warn("写透传点赞集合缓存失败",
				zap.Error(cacheErr),
				zap.Uint64("postID", pID),
				zap.String("userID", uID),
			)
		}
	}(liked, postID, userID)

	// 重新读取帖子以返回数据库中的最新计数。
	likesCount := post.LikesCount
	if fresh, freshErr := s.postRepo.GetPostByID(ctx, postID); freshErr == nil {
		likesCount = fresh.LikesCount
	} else {
		s.logger.Warn("切换点赞后回读帖子计数失败，返回切换前的快照值",
			zap.Error(freshErr), zap.Uint64("postID", postID))
	}

	return &vo.LikeStatusVO{
		PostID:     postID,
		Liked:      liked,
		LikesCount: likesCount,
	}, nil
}

// GetLikeStatus 实现点赞状态的查询。
func (s *likeService) GetLikeStatus(ctx context.Context, postID uint64, userID string) (*vo.LikeStatusVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked := false
	if userID != "" {
		liked, err = s.likeRepo.IsLiked(ctx, postID, userID)
		if err != nil {
			s.logger.Error("查询点赞状态失败", zap.Error(err), zap.Uint64("postID", postID), zap.String("userID", userID))
			return nil, err
		}
	}

	return &vo.LikeStatusVO{
		PostID:     postID,
		Liked:      liked,
		LikesCount: post.LikesCount,
	}, nil
}
