package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/wall_service/repo/mysql"
	"github.com/Xushengqwer/wall_service/repo/redis"
)

// PurgeService 定义了用户注销后的内容清理逻辑。
// - 由 Kafka 用户注销事件驱动：删除该用户的全部帖子（含级联）、
//   撤销其在他人帖子上的点赞与评论，并同步维护相关计数。
// - 操作幂等：事件重复投递时，已清理的内容不会被二次计数。
type PurgeService interface {
	// PurgeUserContent 清理指定用户的全部内容。
	// - 单条内容清理失败不中断整体流程，错误聚合后返回，交由消费方决定是否重试。
	PurgeUserContent(ctx context.Context, userID string) error
}

// purgeService 是 PurgeService 接口的具体实现。
type purgeService struct {
	txManager   mysql.TransactionManager    // 事务管理
	postSvc     PostService                 // 复用删帖的级联清理与事件广播
	postRepo    mysql.PostRepository        // 帖子的 MySQL 操作
	likeRepo    mysql.PostLikeRepository    // 点赞的 MySQL 操作
	commentRepo mysql.PostCommentRepository // 评论的 MySQL 操作
	likesCache  redis.UserLikesCache        // 用户点赞集合缓存
	logger      *core.ZapLogger             // 日志记录器
}

// NewPurgeService 是 purgeService 的构造函数。
func NewPurgeService(
	txManager mysql.TransactionManager,
	postSvc PostService,
	postRepo mysql.PostRepository,
	likeRepo mysql.PostLikeRepository,
	commentRepo mysql.PostCommentRepository,
	likesCache redis.UserLikesCache,
	logger *core.ZapLogger,
) PurgeService {
	return &purgeService{
		txManager:   txManager,
		postSvc:     postSvc,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		likesCache:  likesCache,
		logger:      logger,
	}
}

// PurgeUserContent 实现用户内容的全量清理。
//
// 清理顺序是有意的:
//  1. 先删该用户自己的帖子。级联会一并清掉帖子下所有人的点赞与评论，
//     后续两步扫描到的就只剩该用户在他人帖子上留下的内容。
//  2. 撤销其在他人帖子上的点赞，同事务维护 likes_count。
//  3. 软删除其在他人帖子上的评论，同事务维护 comments_count。
func (s *purgeService) PurgeUserContent(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("清理用户内容: userID 为空")
	}
	s.logger.Info("开始清理注销用户的内容", zap.String("userID", userID))

	var failures []error

	// --- 1. 删除该用户发布的全部帖子（复用删帖级联）---
	posts, err := s.postRepo.ListPostsByAuthor(ctx, userID)
	if err != nil {
		// 帖子列表拿不到时放弃本次清理，让消费方重试整个事件。
		s.logger.Error("清理用户内容：获取用户帖子列表失败", zap.Error(err), zap.String("userID", userID))
		return fmt.Errorf("获取用户帖子列表失败: %w", err)
	}
	for _, post := range posts {
		if delErr := s.postSvc.DeletePost(ctx, post.ID, userID, ""); delErr != nil {
			if errors.Is(delErr, commonerrors.ErrRepoNotFound) {
				continue // 已被删除，幂等跳过
			}
			s.logger.Error("清理用户内容：删除帖子失败",
				zap.Error(delErr),
				zap.Uint64("postID", post.ID),
				zap.String("userID", userID),
			)
			failures = append(failures, fmt.Errorf("删除帖子 %d 失败: %w", post.ID, delErr))
		}
	}

	// --- 2. 撤销该用户在他人帖子上的点赞 ---
	likes, err := s.likeRepo.ListLikesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("清理用户内容：获取用户点赞列表失败", zap.Error(err), zap.String("userID", userID))
		failures = append(failures, fmt.Errorf("获取用户点赞列表失败: %w", err))
	} else {
		for _, like := range likes {
			postID := like.PostID
			txErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
				deleted, repoErr := s.likeRepo.DeleteLike(ctx, tx, postID, userID)
				if repoErr != nil {
					return repoErr
				}
				if !deleted {
					return nil // 已被级联清理，幂等跳过，不做计数增量
				}
				return s.postRepo.IncrementLikesCount(ctx, tx, postID, -1)
			})
			if txErr != nil {
				s.logger.Error("清理用户内容：撤销点赞失败",
					zap.Error(txErr),
					zap.Uint64("postID", postID),
					zap.String("userID", userID),
				)
				failures = append(failures, fmt.Errorf("撤销帖子 %d 的点赞失败: %w", postID, txErr))
			}
		}
	}

	// --- 3. 删除该用户在他人帖子上的评论 ---
	comments, err := s.commentRepo.ListCommentsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("清理用户内容：获取用户评论列表失败", zap.Error(err), zap.String("userID", userID))
		failures = append(failures, fmt.Errorf("获取用户评论列表失败: %w", err))
	} else {
		for _, comment := range comments {
			commentID, postID := comment.ID, comment.PostID
			txErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
				if repoErr := s.commentRepo.DeleteComment(ctx, tx, commentID); repoErr != nil {
					if errors.Is(repoErr, commonerrors.ErrRepoNotFound) {
						return nil // 已被级联清理，幂等跳过
					}
					return repoErr
				}
				return s.postRepo.IncrementCommentsCount(ctx, tx, postID, -1)
			})
			if txErr != nil {
				s.logger.Error("清理用户内容：删除评论失败",
					zap.Error(txErr),
					zap.Uint64("commentID", commentID),
					zap.String("userID", userID),
				)
				failures = append(failures, fmt.Errorf("删除评论 %d 失败: %w", commentID, txErr))
			}
		}
	}

	// --- 4. 清掉该用户的点赞集合缓存 ---
	if cacheErr := s.likesCache.InvalidateUserLikes(ctx, userID); cacheErr != nil {
		s.logger.Warn("清理用户内容：删除点赞集合缓存失败", zap.Error(cacheErr), zap.String("userID", userID))
	}

	if len(failures) > 0 {
		s.logger.Error("用户内容清理部分失败",
			zap.String("userID", userID),
			zap.Int("failedCount", len(failures)),
		)
		return errors.Join(failures...)
	}

	s.logger.Info("用户内容清理完成",
		zap.String("userID", userID),
		zap.Int("deletedPosts", len(posts)),
	)
	return nil
}
