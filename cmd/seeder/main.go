package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/wall_service/config"
	"github.com/Xushengqwer/wall_service/dependencies"
	"github.com/Xushengqwer/wall_service/repo/mysql"
	redisRepo "github.com/Xushengqwer/wall_service/repo/redis"
	wallServicePkg "github.com/Xushengqwer/wall_service/service"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var numWalls int
	var numPosts int
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numWalls, "walls", 5, "要生成的墙数量 (默认: 5)")
	flag.IntVar(&numPosts, "n", 50, "要生成的帖子数量 (默认: 50)")
	flag.Parse()

	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		fmt.Printf("无法获取配置文件的绝对路径 '%s': %v\n", configFile, err)
		absConfigFile = configFile
	}
	fmt.Printf("准备使用配置文件 '%s' 生成 %d 面墙和 %d 条测试帖子...\n", absConfigFile, numWalls, numPosts)

	if numWalls <= 0 || numPosts <= 0 {
		fmt.Println("错误: 生成的墙和帖子数量都必须大于 0")
		os.Exit(1)
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.WallConfig
	if err := core.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}
	fmt.Println("配置加载成功。")
	if cfg.MySQLConfig.Write.DSN == "" {
		fmt.Println("警告: MySQL Write DSN 为空，请检查配置文件中 `mySQLConfig.write.dsn`。")
	}

	// --- 2. 初始化日志记录器 ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Logger().Sync()
	}()
	logger.Info("Logger 初始化成功 (Seeder)")

	// --- 3. 初始化 MySQL 数据库连接 ---
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 失败 (Seeder)", zap.Error(dbErr))
	}
	logger.Info("MySQL 连接成功 (Seeder)")

	// --- 4. 初始化 Redis (可选，失败时点赞集合缓存功能降级) ---
	rdb, redisErr := dependencies.InitRedis(&cfg, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败 (Seeder)", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功 (Seeder)")

	// --- 5. 初始化 Repositories ---
	txManager := mysql.NewTransactionManager(db)
	wallRepo := mysql.NewWallRepository(db, logger)
	postRepo := mysql.NewPostRepository(db, logger)
	likeRepo := mysql.NewPostLikeRepository(db, logger)
	commentRepo := mysql.NewPostCommentRepository(db, logger)
	userLikesCache := redisRepo.NewUserLikesCache(rdb, logger)
	feedCache := redisRepo.NewFeedCache(rdb, logger)

	// --- 6. 初始化 Services ---
	// Seeder 不发送事件，Kafka 生产者传 nil。
	wallSvc := wallServicePkg.NewWallService(wallRepo, logger)
	postSvc := wallServicePkg.NewPostService(txManager, postRepo, wallRepo, likeRepo, commentRepo, feedCache, nil, logger)
	likeSvc := wallServicePkg.NewLikeService(txManager, likeRepo, postRepo, userLikesCache, logger)
	commentSvc := wallServicePkg.NewCommentService(txManager, commentRepo, postRepo, logger)
	logger.Info("Services 已初始化 (Seeder)")

	// --- 7. 执行数据填充 ---
	ctx := context.Background()
	startTime := time.Now()
	logger.Info("开始执行数据填充...",
		zap.Int("墙数量", numWalls),
		zap.Int("帖子数量", numPosts))

	Seed(ctx, wallSvc, postSvc, likeSvc, commentSvc, logger, numWalls, numPosts)

	fmt.Printf("数据填充完成！总耗时: %v\n", time.Since(startTime))
}
