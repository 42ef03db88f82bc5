package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/wall_service/models/entities"
)

// WallRepository 定义了主题墙数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type WallRepository interface {
	// CreateWall 持久化一面新的主题墙。
	// - Slug 命中唯一索引时返回 gorm 翻译后的 ErrDuplicatedKey，由服务层决定如何呈现。
	CreateWall(ctx context.Context, db *gorm.DB, wall *entities.Wall) error

	// GetWallByID 根据主键获取墙。
	// - 如果未找到，返回 commonerrors.ErrRepoNotFound。
	GetWallByID(ctx context.Context, id uint64) (*entities.Wall, error)

	// GetWallBySlug 根据 slug 获取墙，服务前台 /wall/{slug} 路由。
	// - 如果未找到，返回 commonerrors.ErrRepoNotFound。
	GetWallBySlug(ctx context.Context, slug string) (*entities.Wall, error)

	// ListActiveWalls 返回所有启用中的墙，按 display_order 升序（并列时按 id 升序）。
	ListActiveWalls(ctx context.Context) ([]*entities.Wall, error)

	// ListAllWalls 返回全部墙（含停用的），供管理后台展示，排序同上。
	ListAllWalls(ctx context.Context) ([]*entities.Wall, error)

	// UpdateWallActive 设置墙的启用状态。
	// - 如果记录未找到或已被软删除，返回 commonerrors.ErrRepoNotFound。
	UpdateWallActive(ctx context.Context, wallID uint64, isActive bool) error

	// IncrementPostsCount 以相对量更新墙的帖子计数 (posts_count = posts_count + delta)。
	// - 必须与引起计数变化的帖子行变更处于同一事务（db 传入事务句柄 tx）。
	// - 相对更新保证并发发帖/删帖互不覆盖，绝不允许读出旧值后整值回写。
	IncrementPostsCount(ctx context.Context, db *gorm.DB, wallID uint64, delta int) error
}

// wallRepository 是 WallRepository 接口针对 MySQL 的具体实现。
type wallRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewWallRepository 是 wallRepository 的构造函数。
func NewWallRepository(db *gorm.DB, logger *core.ZapLogger) WallRepository {
	return &wallRepository{
		db:     db,
		logger: logger,
	}
}

// CreateWall 实现墙的数据库插入操作。
// - db 传 nil 时使用仓库自身的连接；参与外部事务时传入事务句柄。
func (r *wallRepository) CreateWall(ctx context.Context, db *gorm.DB, wall *entities.Wall) error {
	if db == nil {
		db = r.db
	}
	if err := db.WithContext(ctx).Create(wall).Error; err != nil {
		// slug 冲突等错误直接返回，由服务层决定如何处理或包装。
		return err
	}
	return nil
}

// GetWallByID 实现根据主键获取墙。
func (r *wallRepository) GetWallByID(ctx context.Context, id uint64) (*entities.Wall, error) {
	var wall entities.Wall
	err := r.db.WithContext(ctx).First(&wall, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取墙未找到", zap.Uint64("wallID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取墙数据库查询失败", zap.Uint64("wallID", id), zap.Error(err))
		return nil, err
	}
	return &wall, nil
}

// GetWallBySlug 实现根据 slug 获取墙。
func (r *wallRepository) GetWallBySlug(ctx context.Context, slug string) (*entities.Wall, error) {
	var wall entities.Wall
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&wall).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 slug 获取墙未找到", zap.String("slug", slug))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 slug 获取墙数据库查询失败", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return &wall, nil
}

// ListActiveWalls 实现启用墙列表查询。
func (r *wallRepository) ListActiveWalls(ctx context.Context) ([]*entities.Wall, error) {
	var walls []*entities.Wall
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").Order("id ASC").
		Find(&walls).Error
	if err != nil {
		r.logger.Error("获取启用墙列表数据库查询失败", zap.Error(err))
		return nil, err
	}
	return walls, nil
}

// ListAllWalls 实现全量墙列表查询（管理后台）。
func (r *wallRepository) ListAllWalls(ctx context.Context) ([]*entities.Wall, error) {
	var walls []*entities.Wall
	err := r.db.WithContext(ctx).
		Order("display_order ASC").Order("id ASC").
		Find(&walls).Error
	if err != nil {
		r.logger.Error("获取全量墙列表数据库查询失败", zap.Error(err))
		return nil, err
	}
	return walls, nil
}

// UpdateWallActive 实现墙启用状态的更新。
func (r *wallRepository) UpdateWallActive(ctx context.Context, wallID uint64, isActive bool) error {
	updateMap := map[string]interface{}{
		"is_active":  isActive,
		"updated_at": time.Now(),
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Wall{}).
		Where("id = ? AND deleted_at IS NULL", wallID).
		Updates(updateMap)

	if result.Error != nil {
		r.logger.Error("更新墙启用状态数据库操作失败",
			zap.Error(result.Error),
			zap.Uint64("wallID", wallID),
			zap.Bool("isActive", isActive),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新墙启用状态但未找到记录或记录已被删除", zap.Uint64("wallID", wallID))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// IncrementPostsCount 实现帖子计数的相对更新。
func (r *wallRepository) IncrementPostsCount(ctx context.Context, db *gorm.DB, wallID uint64, delta int) error {
	result := db.WithContext(ctx).
		Model(&entities.Wall{}).
		Where("id = ?", wallID).
		UpdateColumn("posts_count", gorm.Expr("posts_count + ?", delta))

	if result.Error != nil {
		r.logger.Error("更新墙帖子计数失败",
			zap.Error(result.Error),
			zap.Uint64("wallID", wallID),
			zap.Int("delta", delta),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 计数更新与帖子行变更同处一个事务，目标墙不存在说明上游校验被绕过。
		r.logger.Warn("更新墙帖子计数未命中任何记录", zap.Uint64("wallID", wallID), zap.Int("delta", delta))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
