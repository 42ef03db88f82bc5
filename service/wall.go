package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

// WallService 定义了处理主题墙目录业务逻辑的接口。
// - 前台只读接口展示启用中的墙；创建、启停、全量列表是管理员操作。
// - 路由层的管理员中间件已做第一道拦截，服务层凭显式传入的 role 再做
//   一次裁决，不从任何隐式全局状态读取身份。
type WallService interface {
	// CreateWall 处理管理员创建新主题墙的业务流程。
	// - slug 在全表唯一，命中唯一索引时返回 myErrors.ErrWallSlugExists。
	CreateWall(ctx context.Context, req *dto.CreateWallRequest, operatorID string, role string) (*vo.WallResponse, error)

	// ListActiveWalls 返回所有启用中的墙，供前台导航展示。
	ListActiveWalls(ctx context.Context) (*vo.ListWallsResponse, error)

	// ListAllWalls 返回全部墙（含停用的），供管理后台展示。
	ListAllWalls(ctx context.Context, role string) (*vo.ListWallsResponse, error)

	// GetWallBySlug 根据 slug 获取单面墙。
	// - 停用的墙对外等同于不存在，返回 commonerrors.ErrRepoNotFound。
	GetWallBySlug(ctx context.Context, slug string) (*vo.WallResponse, error)

	// SetWallActive 设置墙的启用状态。
	// - 停用只影响可见性，墙下的帖子数据原样保留。
	SetWallActive(ctx context.Context, wallID uint64, isActive bool, role string) error
}

// wallService 是 WallService 接口的具体实现。
type wallService struct {
	wallRepo mysql.WallRepository // 负责墙目录的 MySQL 操作
	logger   *core.ZapLogger      // 日志记录器
}

// NewWallService 是 wallService 的构造函数，通过依赖注入初始化服务实例。
func NewWallService(wallRepo mysql.WallRepository, logger *core.ZapLogger) WallService {
	return &wallService{
		wallRepo: wallRepo,
		logger:   logger,
	}
}

// requireAdmin 校验调用者角色。
func (s *wallService) requireAdmin(role string) error {
	if role != constant.RoleAdmin {
		return myErrors.ErrForbidden
	}
	return nil
}

// CreateWall 实现墙的创建逻辑。
func (s *wallService) CreateWall(ctx context.Context, req *dto.CreateWallRequest, operatorID string, role string) (*vo.WallResponse, error) {
	if operatorID == "" {
		return nil, commonerrors.ErrUserNotLoggedIn
	}
	if err := s.requireAdmin(role); err != nil {
		s.logger.Warn("非管理员尝试创建墙", zap.String("operatorID", operatorID), zap.String("role", role))
		return nil, err
	}

	// slug 与名称去除首尾空白后必须非空，binding 标签挡不住纯空白输入。
	slug := strings.TrimSpace(req.Slug)
	name := strings.TrimSpace(req.Name)
	if slug == "" || name == "" {
		return nil, myErrors.ErrInvalidContent
	}

	wall := &entities.Wall{
		Slug:         slug,
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		Icon:         req.Icon,
		Color:        req.Color,
		IsActive:     true, // 新建的墙默认启用
		DisplayOrder: req.DisplayOrder,
		PostsCount:   0,
		CreatedBy:    operatorID,
	}

	if err := s.wallRepo.CreateWall(ctx, nil, wall); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("创建墙失败：slug 已存在", zap.String("slug", slug))
			return nil, myErrors.ErrWallSlugExists
		}
		s.logger.Error("创建墙失败", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("创建墙失败: %w", err)
	}

	s.logger.Info("成功创建主题墙",
		zap.Uint64("wallID", wall.ID),
		zap.String("slug", wall.Slug),
		zap.String("operatorID", operatorID),
	)
	return vo.NewWallResponseFromEntity(wall), nil
}

// ListActiveWalls 实现前台墙列表的查询。
func (s *wallService) ListActiveWalls(ctx context.Context) (*vo.ListWallsResponse, error) {
	walls, err := s.wallRepo.ListActiveWalls(ctx)
	if err != nil {
		s.logger.Error("获取启用墙列表失败", zap.Error(err))
		return nil, err
	}
	return &vo.ListWallsResponse{Walls: vo.MapWallsToResponsesVO(walls)}, nil
}

// ListAllWalls 实现管理后台墙列表的查询。
func (s *wallService) ListAllWalls(ctx context.Context, role string) (*vo.ListWallsResponse, error) {
	if err := s.requireAdmin(role); err != nil {
		return nil, err
	}
	walls, err := s.wallRepo.ListAllWalls(ctx)
	if err != nil {
		s.logger.Error("获取全部墙列表失败", zap.Error(err))
		return nil, err
	}
	return &vo.ListWallsResponse{Walls: vo.MapWallsToResponsesVO(walls)}, nil
}

// GetWallBySlug 实现按 slug 获取墙的逻辑。
func (s *wallService) GetWallBySlug(ctx context.Context, slug string) (*vo.WallResponse, error) {
	wall, err := s.wallRepo.GetWallBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("根据 slug 获取墙失败", zap.Error(err), zap.String("slug", slug))
		}
		return nil, err
	}
	// 停用的墙对前台不可见，与不存在同等对待。
	if !wall.IsActive {
		s.logger.Debug("墙已停用，对外按未找到处理", zap.String("slug", slug), zap.Uint64("wallID", wall.ID))
		return nil, commonerrors.ErrRepoNotFound
	}
	return vo.NewWallResponseFromEntity(wall), nil
}

// SetWallActive 实现墙启用状态的切换。
func (s *wallService) SetWallActive(ctx context.Context, wallID uint64, isActive bool, role string) error {
	if err := s.requireAdmin(role); err != nil {
		s.logger.Warn("非管理员尝试变更墙状态", zap.Uint64("wallID", wallID), zap.String("role", role))
		return err
	}

	if err := s.wallRepo.UpdateWallActive(ctx, wallID, isActive); err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("变更墙启用状态失败", zap.Error(err), zap.Uint64("wallID", wallID))
		}
		return err
	}

	s.logger.Info("墙启用状态已变更", zap.Uint64("wallID", wallID), zap.Bool("isActive", isActive))
	return nil
}
