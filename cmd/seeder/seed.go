package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/service"
)

// Seed 通过服务层填充测试数据：先建墙，再并发发帖，最后随机点赞和评论。
// - 走服务层而不是直接写库，让计数器增量、校验等业务逻辑同样得到覆盖。
func Seed(
	ctx context.Context,
	wallSvc service.WallService,
	postSvc service.PostService,
	likeSvc service.LikeService,
	commentSvc service.CommentService,
	logger *core.ZapLogger,
	numWalls int,
	numPosts int,
) {
	logger.Info("开始填充测试数据 (通过服务层)...",
		zap.Int("墙数量", numWalls),
		zap.Int("帖子数量", numPosts))

	adminID := uuid.New().String()
	adminRole := constant.RoleAdmin

	// --- 1. 创建墙 ---
	wallIDs := make([]uint64, 0, numWalls)
	for i := 0; i < numWalls; i++ {
		createReq := &dto.CreateWallRequest{
			Slug:         fmt.Sprintf("%s-%d", gofakeit.Word(), i),
			Name:         gofakeit.Sentence(3),
			Description:  gofakeit.Sentence(10),
			Icon:         "📌",
			Color:        gofakeit.HexColor(),
			DisplayOrder: i,
		}
		wallResp, err := wallSvc.CreateWall(ctx, createReq, adminID, adminRole)
		if err != nil {
			logger.Error(fmt.Sprintf("创建墙 %d/%d 失败", i+1, numWalls),
				zap.Error(err), zap.String("slug", createReq.Slug))
			continue
		}
		wallIDs = append(wallIDs, wallResp.ID)
		logger.Info(fmt.Sprintf("成功创建墙 %d/%d", i+1, numWalls),
			zap.Uint64("wall_id", wallResp.ID), zap.String("slug", wallResp.Slug))
	}
	if len(wallIDs) == 0 {
		logger.Error("没有可用的墙，跳过帖子填充")
		return
	}

	// --- 2. 并发创建帖子 ---
	// 预生成一批"用户"，让点赞和评论落在固定人群上，更接近真实数据分布。
	userIDs := make([]string, 20)
	for i := range userIDs {
		userIDs[i] = uuid.New().String()
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	postIDs := make([]uint64, 0, numPosts)
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for i := 0; i < numPosts; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			authorID := userIDs[gofakeit.Number(0, len(userIDs)-1)]
			mediaCount := gofakeit.Number(0, 4)
			mediaURLs := make([]string, 0, mediaCount)
			for j := 0; j < mediaCount; j++ {
				mediaURLs = append(mediaURLs, gofakeit.ImageURL(640, 480))
			}

			createReq := &dto.CreatePostRequest{
				WallID:    wallIDs[gofakeit.Number(0, len(wallIDs)-1)],
				Content:   gofakeit.Paragraph(1, 3, 12, " "),
				MediaURLs: mediaURLs,
			}

			resp, err := postSvc.CreatePost(ctx, authorID, createReq)
			if err != nil {
				logger.Error(fmt.Sprintf("创建帖子 %d/%d 失败", itemIndex+1, numPosts),
					zap.Error(err),
					zap.Uint64("wall_id", createReq.WallID),
					zap.String("author_id", authorID))
				return
			}
			mu.Lock()
			postIDs = append(postIDs, resp.ID)
			mu.Unlock()
			logger.Info(fmt.Sprintf("成功创建帖子 %d/%d", itemIndex+1, numPosts),
				zap.Uint64("post_id", resp.ID))
		}(i)
	}
	wg.Wait()

	// --- 3. 随机点赞和评论 ---
	likeCount, commentCount := 0, 0
	for _, postID := range postIDs {
		for _, userID := range userIDs {
			if gofakeit.Bool() {
				if _, err := likeSvc.ToggleLike(ctx, postID, userID); err != nil {
					logger.Warn("点赞失败", zap.Error(err), zap.Uint64("post_id", postID))
				} else {
					likeCount++
				}
			}
			if gofakeit.Number(0, 3) == 0 {
				commentReq := &dto.AddCommentRequest{Content: gofakeit.Sentence(gofakeit.Number(5, 20))}
				if _, err := commentSvc.AddComment(ctx, postID, userID, commentReq); err != nil {
					logger.Warn("评论失败", zap.Error(err), zap.Uint64("post_id", postID))
				} else {
					commentCount++
				}
			}
		}
	}

	logger.Info("测试数据填充完毕 (通过服务层)。",
		zap.Int("帖子", len(postIDs)),
		zap.Int("点赞", likeCount),
		zap.Int("评论", commentCount))
}
