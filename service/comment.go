package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/models/entities"
	"github.com/Xushengqwer/wall_service/models/vo"
	"github.com/Xushengqwer/wall_service/myErrors"
	"github.com/Xushengqwer/wall_service/repo/mysql"
)

// CommentService 定义了帖子评论的业务逻辑接口。
// - comments_count 是同事务维护的冗余计数，评论表才是事实来源。
type CommentService interface {
	// AddComment 在指定帖子下发表评论。
	// - 在同一事务内写入评论并对帖子的 comments_count 做 +1 相对增量。
	AddComment(ctx context.Context, postID uint64, userID string, req *dto.AddCommentRequest) (*vo.CommentResponse, error)

	// ListComments 返回帖子的全部评论，按发表时间从旧到新排列。
	ListComments(ctx context.Context, postID uint64, userID string) (*vo.ListCommentsResponse, error)

	// DeleteComment 删除评论，仅作者本人或管理员可执行。
	// - 在同一事务内软删除评论并对帖子的 comments_count 做 -1 相对增量。
	DeleteComment(ctx context.Context, commentID uint64, userID string, role string) error
}

// commentService 是 CommentService 接口的具体实现。
type commentService struct {
	txManager   mysql.TransactionManager    // 事务管理
	commentRepo mysql.PostCommentRepository // 评论的 MySQL 操作
	postRepo    mysql.PostRepository        // 帖子的 MySQL 操作
	logger      *core.ZapLogger             // 日志记录器
}

// NewCommentService 是 commentService 的构造函数。
func NewCommentService(
	txManager mysql.TransactionManager,
	commentRepo mysql.PostCommentRepository,
	postRepo mysql.PostRepository,
	logger *core.ZapLogger,
) CommentService {
	return &commentService{
		txManager:   txManager,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		logger:      logger,
	}
}

// getVisiblePost 获取帖子并校验对调用者的可见性。
// - 非公开帖子仅作者可见，对其他人视同未找到。
func (s *commentService) getVisiblePost(ctx context.Context, postID uint64, userID string) (*entities.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPublic && post.AuthorID != userID {
		return nil, commonerrors.ErrRepoNotFound
	}
	return post, nil
}

// AddComment 实现评论的发表。
func (s *commentService) AddComment(ctx context.Context, postID uint64, userID string, req *dto.AddCommentRequest) (*vo.CommentResponse, error) {
	if userID == "" {
		return nil, commonerrors.ErrUserNotLoggedIn
	}

	// 正文去除首尾空白后必须非空且不超上限。
	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > constant.MaxCommentContentLength {
		return nil, myErrors.ErrInvalidContent
	}

	if _, err := s.getVisiblePost(ctx, postID, userID); err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("评论前获取帖子失败", zap.Error(err), zap.Uint64("postID", postID))
		}
		return nil, err
	}

	comment := &entities.PostComment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}

	// 评论行插入与 comments_count 增量在同一事务内，保持计数与行数一致。
	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if repoErr := s.commentRepo.CreateComment(ctx, tx, comment); repoErr != nil {
			return fmt.Errorf("创建评论失败: %w", repoErr)
		}
		if repoErr := s.postRepo.IncrementCommentsCount(ctx, tx, postID, 1); repoErr != nil {
			return fmt.Errorf("更新评论计数失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("发表评论事务失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, err
	}

	s.logger.Info("评论发表成功",
		zap.Uint64("commentID", comment.ID),
		zap.Uint64("postID", postID),
		zap.String("authorID", userID),
	)
	return vo.NewCommentResponseFromEntity(comment), nil
}

// ListComments 实现评论列表的查询。
func (s *commentService) ListComments(ctx context.Context, postID uint64, userID string) (*vo.ListCommentsResponse, error) {
	if _, err := s.getVisiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListCommentsByPostID(ctx, postID)
	if err != nil {
		s.logger.Error("获取评论列表失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, err
	}
	return &vo.ListCommentsResponse{Comments: vo.MapCommentsToResponsesVO(comments)}, nil
}

// DeleteComment 实现评论的删除。
func (s *commentService) DeleteComment(ctx context.Context, commentID uint64, userID string, role string) error {
	if userID == "" {
		return commonerrors.ErrUserNotLoggedIn
	}

	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("删除评论前获取评论失败", zap.Error(err), zap.Uint64("commentID", commentID))
		}
		return err
	}
	if comment.AuthorID != userID && role != constant.RoleAdmin {
		s.logger.Warn("非作者且非管理员尝试删除评论",
			zap.Uint64("commentID", commentID),
			zap.String("userID", userID),
			zap.String("authorID", comment.AuthorID),
		)
		return myErrors.ErrForbidden
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if repoErr := s.commentRepo.DeleteComment(ctx, tx, commentID); repoErr != nil {
			return fmt.Errorf("软删除评论失败: %w", repoErr)
		}
		if repoErr := s.postRepo.IncrementCommentsCount(ctx, tx, comment.PostID, -1); repoErr != nil {
			return fmt.Errorf("更新评论计数失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("删除评论事务失败", zap.Error(err), zap.Uint64("commentID", commentID))
		return err
	}

	s.logger.Info("评论删除完成",
		zap.Uint64("commentID", commentID),
		zap.Uint64("postID", comment.PostID),
		zap.String("operatorID", userID),
	)
	return nil
}
