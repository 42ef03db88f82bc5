package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/models/entities"
)

// PostRepository 定义了帖子数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type PostRepository interface {
	// CreatePost 持久化一条新的帖子记录。
	// - 这是帖子生命周期的起点，对应用户向某面墙发帖的操作。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// GetPostByID 根据单个 ID 检索帖子。
	// - 如果未找到帖子，返回 commonerrors.ErrRepoNotFound。
	GetPostByID(ctx context.Context, id uint64) (*entities.Post, error)

	// ListPostsByWallCursor 实现墙信息流的游标分页查询。
	// - 只返回公开帖子 (is_public = true)，按 created_at 降序、id 降序排列：
	//   最新的在前，同一时刻的多条按插入逆序，这是信息流的硬性契约。
	// - 游标为 (created_at, id) 双字段，返回的 nextCreatedAt/nextPostID 为 nil 表示没有更多数据。
	ListPostsByWallCursor(ctx context.Context, wallID uint64, params *dto.ListPostsByWallRequest) ([]*entities.Post, *time.Time, *uint64, error)

	// ListPostsByAuthor 检索指定作者的全部帖子（含非公开），服务内容清理流程。
	ListPostsByAuthor(ctx context.Context, authorID string) ([]*entities.Post, error)

	// DeletePost 对指定帖子执行软删除。
	// - 级联清理（点赞/评论/墙计数）由服务层在同一事务内编排，本方法只负责帖子行。
	DeletePost(ctx context.Context, db *gorm.DB, id uint64) error

	// IncrementLikesCount 以相对量更新帖子的点赞计数 (likes_count = likes_count + delta)。
	// - 必须与点赞行的插入/删除处于同一事务（db 传入事务句柄 tx）。
	// - 相对更新保证两个用户并发点赞同一帖子时互不覆盖；
	//   绝不允许读出旧值后整值回写。
	IncrementLikesCount(ctx context.Context, db *gorm.DB, postID uint64, delta int) error

	// IncrementCommentsCount 以相对量更新帖子的评论计数，约束与 IncrementLikesCount 相同。
	IncrementCommentsCount(ctx context.Context, db *gorm.DB, postID uint64, delta int) error
}

// postRepository 是 PostRepository 接口针对 MySQL 的具体实现。
type postRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePost 实现帖子的数据库插入操作。
func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	// 使用传入的 db 对象（在这里即为事务对象 tx）执行数据库操作。
	// GORM 会自动填充 BaseModel 中的 CreatedAt 和 UpdatedAt 字段。
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	// 创建成功后，post 对象会包含 GORM 自动生成的 ID 和时间戳。
	return nil
}

// GetPostByID 实现根据单个 ID 获取帖子。
func (r *postRepository) GetPostByID(ctx context.Context, id uint64) (*entities.Post, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取帖子未找到", zap.Uint64("postID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取帖子数据库查询失败", zap.Uint64("postID", id), zap.Error(err))
		return nil, err
	}
	return &post, nil
}

// ListPostsByWallCursor 实现墙信息流的游标分页查询。
func (r *postRepository) ListPostsByWallCursor(ctx context.Context, wallID uint64, params *dto.ListPostsByWallRequest) ([]*entities.Post, *time.Time, *uint64, error) {
	var posts []*entities.Post

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 20
		r.logger.Warn("ListPostsByWallCursor 接收到的 PageSize 无效，使用默认值",
			zap.Int("receivedPageSize", params.PageSize),
			zap.Int("defaultPageSize", pageSize),
		)
	}

	// 构建基础查询：指定墙、只看公开帖子。
	query := r.db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("wall_id = ?", wallID).
		Where("is_public = ?", true)

	// 应用游标分页条件 (检查指针是否为 nil)
	if params.LastCreatedAt != nil && params.LastPostID != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", *params.LastCreatedAt, *params.LastCreatedAt, *params.LastPostID)
	}

	// 定义排序：首先按创建时间降序，然后按 ID 降序。
	query = query.Order("created_at DESC").Order("id DESC")

	// 查询 pageSize + 1 条记录，目的是判断是否还有下一页。
	err := query.Limit(pageSize + 1).Find(&posts).Error
	if err != nil {
		r.logger.Error("按墙获取信息流数据库查询失败",
			zap.Error(err),
			zap.Uint64("wallID", wallID),
		)
		return nil, nil, nil, err
	}

	// 准备下一页的游标。
	var nextCreatedAt *time.Time
	var nextPostID *uint64

	if len(posts) > pageSize {
		lastPostInPage := posts[pageSize-1]
		nextCreatedAt = &lastPostInPage.CreatedAt
		nextPostID = &lastPostInPage.ID
		posts = posts[:pageSize] // 截断结果
	}

	return posts, nextCreatedAt, nextPostID, nil
}

// ListPostsByAuthor 实现按作者检索全部帖子。
func (r *postRepository) ListPostsByAuthor(ctx context.Context, authorID string) ([]*entities.Post, error) {
	var posts []*entities.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		r.logger.Error("按作者获取帖子列表数据库查询失败", zap.Error(err), zap.String("authorID", authorID))
		return nil, err
	}
	return posts, nil
}

// DeletePost 实现帖子的软删除。
// db 参数是执行此操作的数据库句柄 (可以是普通连接，也可以是事务 tx)。
func (r *postRepository) DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 服务层在删除前已确认过帖子存在；这里命中 0 行说明并发删除竞争，按未找到处理。
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// IncrementLikesCount 实现点赞计数的相对更新。
func (r *postRepository) IncrementLikesCount(ctx context.Context, db *gorm.DB, postID uint64, delta int) error {
	return r.incrementCounter(ctx, db, postID, "likes_count", delta)
}

// IncrementCommentsCount 实现评论计数的相对更新。
func (r *postRepository) IncrementCommentsCount(ctx context.Context, db *gorm.DB, postID uint64, delta int) error {
	return r.incrementCounter(ctx, db, postID, "comments_count", delta)
}

// incrementCounter 以 "column = column + delta" 的形式更新帖子上的冗余计数列。
func (r *postRepository) incrementCounter(ctx context.Context, db *gorm.DB, postID uint64, column string, delta int) error {
	result := db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))

	if result.Error != nil {
		r.logger.Error("更新帖子计数失败",
			zap.Error(result.Error),
			zap.Uint64("postID", postID),
			zap.String("column", column),
			zap.Int("delta", delta),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("更新帖子计数未命中任何记录",
			zap.Uint64("postID", postID),
			zap.String("column", column),
			zap.Int("delta", delta),
		)
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
