package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/wall_service/models/entities"
)

// PostCommentRepository 定义了评论数据在 MySQL 中的持久化操作接口。
type PostCommentRepository interface {
	// CreateComment 插入一条评论记录。
	CreateComment(ctx context.Context, db *gorm.DB, comment *entities.PostComment) error

	// GetCommentByID 根据主键检索评论。
	// - 未找到时返回 commonerrors.ErrRepoNotFound。
	GetCommentByID(ctx context.Context, commentID uint64) (*entities.PostComment, error)

	// ListCommentsByPostID 检索指定帖子的评论。
	// - 固定按 created_at 升序、id 升序排列，对话自然从旧到新展开。
	ListCommentsByPostID(ctx context.Context, postID uint64) ([]*entities.PostComment, error)

	// DeleteComment 软删除指定评论。
	// - 返回 commonerrors.ErrRepoNotFound 表示评论不存在或已被删除。
	DeleteComment(ctx context.Context, db *gorm.DB, commentID uint64) error

	// ListCommentsByUser 检索用户发表的全部评论，服务内容清理流程。
	ListCommentsByUser(ctx context.Context, userID string) ([]*entities.PostComment, error)

	// DeleteCommentsByPostID 软删除指定帖子的全部评论，返回删除行数。
	// - 用于删帖级联，必须与帖子行删除处于同一事务。
	DeleteCommentsByPostID(ctx context.Context, db *gorm.DB, postID uint64) (int64, error)

	// CountCommentsByPostID 统计指定帖子的有效评论数（计数器审计的事实来源）。
	CountCommentsByPostID(ctx context.Context, postID uint64) (int64, error)
}

// postCommentRepository 是 PostCommentRepository 接口针对 MySQL 的具体实现。
type postCommentRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostCommentRepository 是 postCommentRepository 的构造函数。
func NewPostCommentRepository(db *gorm.DB, logger *core.ZapLogger) PostCommentRepository {
	return &postCommentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateComment 实现评论的插入。
func (r *postCommentRepository) CreateComment(ctx context.Context, db *gorm.DB, comment *entities.PostComment) error {
	if err := db.WithContext(ctx).Create(comment).Error; err != nil {
		r.logger.Error("插入评论记录失败",
			zap.Error(err),
			zap.Uint64("postID", comment.PostID),
			zap.String("authorID", comment.AuthorID),
		)
		return err
	}
	return nil
}

// GetCommentByID 实现评论的主键检索。
func (r *postCommentRepository) GetCommentByID(ctx context.Context, commentID uint64) (*entities.PostComment, error) {
	var comment entities.PostComment
	err := r.db.WithContext(ctx).First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取评论失败", zap.Error(err), zap.Uint64("commentID", commentID))
		return nil, err
	}
	return &comment, nil
}

// ListCommentsByPostID 实现帖子评论列表的检索。
func (r *postCommentRepository) ListCommentsByPostID(ctx context.Context, postID uint64) ([]*entities.PostComment, error) {
	var comments []*entities.PostComment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		r.logger.Error("获取帖子评论列表失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, err
	}
	return comments, nil
}

// DeleteComment 实现评论的软删除。
func (r *postCommentRepository) DeleteComment(ctx context.Context, db *gorm.DB, commentID uint64) error {
	result := db.WithContext(ctx).Delete(&entities.PostComment{}, commentID)
	if result.Error != nil {
		r.logger.Error("删除评论失败", zap.Error(result.Error), zap.Uint64("commentID", commentID))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// ListCommentsByUser 实现按用户检索全部评论。
func (r *postCommentRepository) ListCommentsByUser(ctx context.Context, userID string) ([]*entities.PostComment, error) {
	var comments []*entities.PostComment
	err := r.db.WithContext(ctx).
		Where("author_id = ?", userID).
		Find(&comments).Error
	if err != nil {
		r.logger.Error("按用户获取评论列表失败", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}
	return comments, nil
}

// DeleteCommentsByPostID 实现删帖级联的评论清理。
func (r *postCommentRepository) DeleteCommentsByPostID(ctx context.Context, db *gorm.DB, postID uint64) (int64, error) {
	result := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&entities.PostComment{})
	if result.Error != nil {
		r.logger.Error("级联删除帖子评论失败", zap.Error(result.Error), zap.Uint64("postID", postID))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountCommentsByPostID 实现有效评论数统计。
func (r *postCommentRepository) CountCommentsByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.PostComment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("统计帖子评论数失败", zap.Error(err), zap.Uint64("postID", postID))
		return 0, err
	}
	return count, nil
}
