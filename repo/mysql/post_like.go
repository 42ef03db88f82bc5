package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/wall_service/models/entities"
	"github.com/Xushengqwer/wall_service/myErrors"
)

// PostLikeRepository 定义了点赞数据在 MySQL 中的持久化操作接口。
// - "一人一赞" 由 (post_id, user_id) 数据库唯一索引保证，本层只负责把
//   唯一索引冲突翻译成 myErrors.ErrLikeAlreadyExists，裁决权完全在数据库。
type PostLikeRepository interface {
	// InsertLike 插入一条点赞记录。
	// - 命中唯一索引时返回 myErrors.ErrLikeAlreadyExists，服务层将其折叠为无操作。
	InsertLike(ctx context.Context, db *gorm.DB, like *entities.PostLike) error

	// DeleteLike 物理删除 (postID, userID) 的点赞记录。
	// - 返回是否确实删除了一行：false 表示记录本就不存在（并发取消或从未点赞）。
	DeleteLike(ctx context.Context, db *gorm.DB, postID uint64, userID string) (bool, error)

	// IsLiked 查询用户是否点赞过指定帖子。
	IsLiked(ctx context.Context, postID uint64, userID string) (bool, error)

	// ListLikedPostIDs 在给定帖子 ID 集合内筛选出用户点赞过的子集。
	// - 服务信息流页面的批量 "是否点赞" 标注，单次查询代替逐帖探测。
	ListLikedPostIDs(ctx context.Context, userID string, postIDs []uint64) ([]uint64, error)

	// ListLikesByUser 检索用户的全部点赞记录，服务内容清理流程。
	ListLikesByUser(ctx context.Context, userID string) ([]*entities.PostLike, error)

	// DeleteLikesByPostID 物理删除指定帖子的全部点赞，返回删除行数。
	// - 用于删帖级联，必须与帖子行删除处于同一事务。
	DeleteLikesByPostID(ctx context.Context, db *gorm.DB, postID uint64) (int64, error)

	// CountLikesByPostID 统计指定帖子的点赞行数（计数器审计的事实来源）。
	CountLikesByPostID(ctx context.Context, postID uint64) (int64, error)
}

// postLikeRepository 是 PostLikeRepository 接口针对 MySQL 的具体实现。
type postLikeRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostLikeRepository 是 postLikeRepository 的构造函数。
func NewPostLikeRepository(db *gorm.DB, logger *core.ZapLogger) PostLikeRepository {
	return &postLikeRepository{
		db:     db,
		logger: logger,
	}
}

// InsertLike 实现点赞记录的插入。
func (r *postLikeRepository) InsertLike(ctx context.Context, db *gorm.DB, like *entities.PostLike) error {
	if err := db.WithContext(ctx).Create(like).Error; err != nil {
		// 依赖 gorm.Config.TranslateError 把 MySQL 1062 翻译为 gorm.ErrDuplicatedKey。
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.Debug("点赞插入命中唯一索引，该用户已点赞过此帖",
				zap.Uint64("postID", like.PostID),
				zap.String("userID", like.UserID),
			)
			return myErrors.ErrLikeAlreadyExists
		}
		r.logger.Error("插入点赞记录失败",
			zap.Error(err),
			zap.Uint64("postID", like.PostID),
			zap.String("userID", like.UserID),
		)
		return err
	}
	return nil
}

// DeleteLike 实现点赞记录的物理删除。
func (r *postLikeRepository) DeleteLike(ctx context.Context, db *gorm.DB, postID uint64, userID string) (bool, error) {
	result := db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&entities.PostLike{})
	if result.Error != nil {
		r.logger.Error("删除点赞记录失败",
			zap.Error(result.Error),
			zap.Uint64("postID", postID),
			zap.String("userID", userID),
		)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsLiked 实现点赞状态查询。
func (r *postLikeRepository) IsLiked(ctx context.Context, postID uint64, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("查询点赞状态失败",
			zap.Error(err),
			zap.Uint64("postID", postID),
			zap.String("userID", userID),
		)
		return false, err
	}
	return count > 0, nil
}

// ListLikedPostIDs 实现点赞子集筛选。
func (r *postLikeRepository) ListLikedPostIDs(ctx context.Context, userID string, postIDs []uint64) ([]uint64, error) {
	if len(postIDs) == 0 {
		return []uint64{}, nil
	}
	var likedIDs []uint64
	err := r.db.WithContext(ctx).
		Model(&entities.PostLike{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &likedIDs).Error
	if err != nil {
		r.logger.Error("批量查询点赞子集失败", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}
	return likedIDs, nil
}

// ListLikesByUser 实现按用户检索全部点赞。
func (r *postLikeRepository) ListLikesByUser(ctx context.Context, userID string) ([]*entities.PostLike, error) {
	var likes []*entities.PostLike
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&likes).Error
	if err != nil {
		r.logger.Error("按用户获取点赞列表失败", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}
	return likes, nil
}

// DeleteLikesByPostID 实现删帖级联的点赞清理。
func (r *postLikeRepository) DeleteLikesByPostID(ctx context.Context, db *gorm.DB, postID uint64) (int64, error) {
	result := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&entities.PostLike{})
	if result.Error != nil {
		r.logger.Error("级联删除帖子点赞失败", zap.Error(result.Error), zap.Uint64("postID", postID))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountLikesByPostID 实现点赞行数统计。
func (r *postLikeRepository) CountLikesByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("统计帖子点赞数失败", zap.Error(err), zap.Uint64("postID", postID))
		return 0, err
	}
	return count, nil
}
