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
	"github.com/Xushengqwer/wall_service/models/events"
	"github.com/Xushengqwer/wall_service/models/vo"
	"github.com/Xushengqwer/wall_service/myErrors"
	"github.com/Xushengqwer/wall_service/repo/mysql"
	"github.com/Xushengqwer/wall_service/repo/redis"
)

// EventProducer 抽象了帖子生命周期事件的出站通道。
// - 生产实现是 mq/producer 的 Kafka 生产者；单元测试注入内存实现。
type EventProducer interface {
	SendWallPostCreatedEvent(ctx context.Context, postData events.PostEventData) error
	SendWallPostDeletedEvent(ctx context.Context, postID uint64, wallID uint64) error
}

// PostService 定义了处理帖子核心业务逻辑的接口。
type PostService interface {
	// CreatePost 处理用户向某面墙发帖的业务流程。
	// - 校验正文与媒体数量，确认目标墙存在且处于启用状态。
	// - 在同一事务内写入帖子并对墙的 posts_count 做 +1 相对增量。
	// - 成功后异步发送 Kafka 发帖事件，并使该墙的信息流首页缓存失效。
	CreatePost(ctx context.Context, userID string, req *dto.CreatePostRequest) (*vo.PostResponse, error)

	// GetPost 获取单个帖子（落地页场景）。
	// - 非公开帖子仅作者本人可见，其他调用者视同未找到。
	// - 登录用户的响应会标注其是否点赞过该帖。
	GetPost(ctx context.Context, postID uint64, userID string) (*vo.PostResponse, error)

	// DeletePost 处理删除帖子的操作，仅作者本人或管理员可执行。
	// - 在同一事务内软删除帖子、软删除其全部评论、物理删除其全部点赞，
	//   并对墙的 posts_count 做 -1 相对增量，保证计数与行数的原子一致。
	// - 成功后异步发送 Kafka 删帖事件，并使该墙的信息流首页缓存失效。
	DeletePost(ctx context.Context, postID uint64, userID string, role string) error
}

// postService 是 PostService 接口的具体实现。
type postService struct {
	txManager   mysql.TransactionManager   // 事务管理
	postRepo    mysql.PostRepository       // 帖子的 MySQL 操作
	wallRepo    mysql.WallRepository       // 墙目录的 MySQL 操作
	likeRepo    mysql.PostLikeRepository   // 点赞的 MySQL 操作
	commentRepo mysql.PostCommentRepository // 评论的 MySQL 操作
	feedCache   redis.FeedCache            // 信息流首页缓存
	kafkaSvc    EventProducer              // Kafka 生产者，发送异步消息
	logger      *core.ZapLogger            // 日志记录器
}

// NewPostService 是 postService 的构造函数，通过依赖注入初始化服务实例。
// - 这种方式便于单元测试和组件替换。
func NewPostService(
	txManager mysql.TransactionManager,
	postRepo mysql.PostRepository,
	wallRepo mysql.WallRepository,
	likeRepo mysql.PostLikeRepository,
	commentRepo mysql.PostCommentRepository,
	feedCache redis.FeedCache,
	kafkaSvc EventProducer,
	logger *core.ZapLogger,
) PostService {
	return &postService{
		txManager:   txManager,
		postRepo:    postRepo,
		wallRepo:    wallRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		feedCache:   feedCache,
		kafkaSvc:    kafkaSvc,
		logger:      logger,
	}
}

// validatePostContent 校验发帖输入，binding 标签之外的业务规则在这里兜底。
func validatePostContent(req *dto.CreatePostRequest) (string, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > constant.MaxPostContentLength {
		return "", myErrors.ErrInvalidContent
	}
	if len(req.MediaURLs) > constant.MaxPostMediaURLs {
		return "", myErrors.ErrTooManyMedia
	}
	return content, nil
}

// CreatePost 实现发帖的业务流程。
func (s *postService) CreatePost(ctx context.Context, userID string, req *dto.CreatePostRequest) (*vo.PostResponse, error) {
	// 1. 身份与输入校验。
	if userID == "" {
		return nil, commonerrors.ErrUserNotLoggedIn
	}
	content, err := validatePostContent(req)
	if err != nil {
		return nil, err
	}

	// 2. 确认目标墙存在且启用。
	wall, err := s.wallRepo.GetWallByID(ctx, req.WallID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("发帖失败：目标墙不存在", zap.Uint64("wallID", req.WallID))
		}
		return nil, err
	}
	if !wall.IsActive {
		s.logger.Warn("发帖失败：目标墙已停用", zap.Uint64("wallID", wall.ID))
		return nil, myErrors.ErrWallInactive
	}

	// 未显式指定可见性时默认公开。
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := &entities.Post{
		WallID:    wall.ID,
		AuthorID:  userID,
		Content:   content,
		MediaURLs: req.MediaURLs,
		IsPublic:  isPublic,
	}

	// 3. 在事务中写入帖子并维护墙计数。
	//    行插入与 posts_count 增量要么一起生效、要么一起回滚，
	//    计数器不会因半途崩溃出现单边更新。
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if repoErr := s.postRepo.CreatePost(ctx, tx, post); repoErr != nil {
			return fmt.Errorf("创建帖子失败: %w", repoErr)
		}
		if repoErr := s.wallRepo.IncrementPostsCount(ctx, tx, wall.ID, 1); repoErr != nil {
			return fmt.Errorf("更新墙帖子计数失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("创建帖子事务失败", zap.Error(err), zap.Uint64("wallID", wall.ID))
		return nil, err
	}

	// --- 事务成功 ---

	// 4. 异步发送 Kafka 发帖事件，并使首页缓存失效让新帖尽快可见。
	eventData := events.PostEventData{
		ID:        post.ID,
		WallID:    post.WallID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		MediaURLs: post.MediaURLs,
		IsPublic:  post.IsPublic,
		CreatedAt: post.CreatedAt.UnixMilli(),
	}
	go func(pd events.PostEventData) {
		bgCtx := context.Background() // 为后台 goroutine 创建新的上下文
		if s.kafkaSvc != nil {
			if kafkaErr := s.kafkaSvc.SendWallPostCreatedEvent(bgCtx, pd); kafkaErr != nil {
				s.logger.Error("发送 Kafka 发帖事件失败", zap.Error(kafkaErr), zap.Uint64("post_id", pd.ID))
			}
		}
		if cacheErr := s.feedCache.InvalidateWallFeed(bgCtx, pd.WallID); cacheErr != nil {
			s.logger.Warn("发帖后使信息流首页缓存失效失败", zap.Error(cacheErr), zap.Uint64("wallID", pd.WallID))
		}
	}(eventData)

	s.logger.Info("帖子发布成功",
		zap.Uint64("postID", post.ID),
		zap.Uint64("wallID", post.WallID),
		zap.String("authorID", post.AuthorID),
	)
	return vo.NewPostResponseFromEntity(post), nil
}

// GetPost 实现帖子落地页的查询逻辑。
func (s *postService) GetPost(ctx context.Context, postID uint64, userID string) (*vo.PostResponse, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("获取帖子失败", zap.Error(err), zap.Uint64("postID", postID))
		}
		return nil, err
	}

	// 非公开帖子仅作者可见；对其他人不暴露 "存在但不可见" 的区别。
	if !post.IsPublic && post.AuthorID != userID {
		return nil, commonerrors.ErrRepoNotFound
	}

	resp := vo.NewPostResponseFromEntity(post)
	if userID != "" {
		liked, likeErr := s.likeRepo.IsLiked(ctx, postID, userID)
		if likeErr != nil {
			// 点赞标注失败不阻断落地页展示，按未点赞呈现。
			s.logger.Warn("查询点赞状态失败，落地页按未点赞呈现",
				zap.Error(likeErr),
				zap.Uint64("postID", postID),
				zap.String("userID", userID),
			)
		} else {
			resp.IsLiked = liked
		}
	}
	return resp, nil
}

// DeletePost 实现删帖及其级联清理。
func (s *postService) DeletePost(ctx context.Context, postID uint64, userID string, role string) error {
	if userID == "" {
		return commonerrors.ErrUserNotLoggedIn
	}

	// 1. 获取帖子并裁决权限：作者本人或管理员。
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("删帖前获取帖子失败", zap.Error(err), zap.Uint64("postID", postID))
		}
		return err
	}
	if post.AuthorID != userID && role != constant.RoleAdmin {
		s.logger.Warn("非作者且非管理员尝试删帖",
			zap.Uint64("postID", postID),
			zap.String("userID", userID),
			zap.String("authorID", post.AuthorID),
		)
		return myErrors.ErrForbidden
	}

	// 2. 在事务中级联清理。
	//    点赞表没有软删除列，物理删除以释放 (post_id, user_id) 唯一索引；
	//    评论与帖子走软删除；墙计数在同一事务内 -1。
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if _, repoErr := s.likeRepo.DeleteLikesByPostID(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("级联删除帖子点赞失败: %w", repoErr)
		}
		if _, repoErr := s.commentRepo.DeleteCommentsByPostID(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("级联删除帖子评论失败: %w", repoErr)
		}
		if repoErr := s.postRepo.DeletePost(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("软删除帖子失败: %w", repoErr)
		}
		if repoErr := s.wallRepo.IncrementPostsCount(ctx, tx, post.WallID, -1); repoErr != nil {
			return fmt.Errorf("更新墙帖子计数失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("删除帖子事务失败", zap.Error(err), zap.Uint64("postID", postID))
		return err
	}

	// 3. 异步发送 Kafka 删帖事件，并使首页缓存失效，避免已删除的帖子在 TTL 内继续展示。
	go func(pID, wID uint64) {
		bgCtx := context.Background()
		if s.kafkaSvc != nil {
			if kafkaErr := s.kafkaSvc.SendWallPostDeletedEvent(bgCtx, pID, wID); kafkaErr != nil {
				s.logger.Error("发送 Kafka 删帖事件失败", zap.Error(kafkaErr), zap.Uint64("post_id", pID))
			}
		}
		if cacheErr := s.feedCache.InvalidateWallFeed(bgCtx, wID); cacheErr != nil {
			s.logger.Warn("删帖后使信息流首页缓存失效失败", zap.Error(cacheErr), zap.Uint64("wallID", wID))
		}
	}(postID, post.WallID)

	s.logger.Info("帖子及其关联数据删除完成",
		zap.Uint64("postID", postID),
		zap.Uint64("wallID", post.WallID),
		zap.String("operatorID", userID),
	)
	return nil
}
