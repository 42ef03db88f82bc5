package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/Xushengqwer/wall_service/docs" // swag 生成的 API 文档

	// 导入项目包
	appConfig "github.com/Xushengqwer/wall_service/config"
	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/controller"
	"github.com/Xushengqwer/wall_service/dependencies"
	"github.com/Xushengqwer/wall_service/mq/consumer"
	"github.com/Xushengqwer/wall_service/mq/producer"
	"github.com/Xushengqwer/wall_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/wall_service/repo/redis"
	"github.com/Xushengqwer/wall_service/router"
	"github.com/Xushengqwer/wall_service/service"
	"github.com/Xushengqwer/wall_service/tasks"

	// 导入公共模块
	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// @title           Wall Service API
// @version         1.0
// @description     墙贴服务，提供主题墙、帖子信息流、点赞与评论等功能。
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8084

// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.WallConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 打印最终生效的配置以供调试
	configBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatalf("无法序列化配置以进行打印: %v", err)
	}
	log.Printf("✅ 配置加载成功！最终生效的配置如下:\n%s\n", string(configBytes))

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider
	if cfg.TracerConfig.Enabled {
		tracerShutdown, tracerErr := sharedTracing.InitTracerProvider(
			constant.ServiceName,
			constant.ServiceVersion,
			cfg.TracerConfig,
		)
		if tracerErr != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(tracerErr))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("正在关闭 TracerProvider...")
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			} else {
				logger.Info("TracerProvider 已成功关闭")
			}
		}()
		logger.Info("分布式追踪已初始化")
		// 该服务当前没有出站 HTTP 调用，Transport 先初始化备用。
		_ = otelhttp.NewTransport(http.DefaultTransport)
	} else {
		logger.Info("分布式追踪已禁用")
	}

	// --- 4. 初始化核心依赖 ---
	// 4.1 数据库 (MySQL)
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 数据库失败", zap.Error(dbErr))
	}
	logger.Info("MySQL 数据库连接成功")

	// 4.2 Redis
	rdb, redisErr := dependencies.InitRedis(&cfg, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功")

	// 4.3 Kafka 生产者
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Warn("未配置 Kafka brokers，Kafka 生产者将为 nil")
	}

	// --- 5. 初始化数据仓库层 (Repositories) ---
	txManager := mysql.NewTransactionManager(db)
	wallRepo := mysql.NewWallRepository(db, logger)
	postRepo := mysql.NewPostRepository(db, logger)
	likeRepo := mysql.NewPostLikeRepository(db, logger)
	commentRepo := mysql.NewPostCommentRepository(db, logger)
	auditRepo := mysql.NewCounterAuditRepository(db, logger, cfg.CounterAuditConfig)
	logger.Debug("MySQL Repositories 初始化完成")

	userLikesCache := redisrepo.NewUserLikesCache(rdb, logger)
	feedCache := redisrepo.NewFeedCache(rdb, logger)
	logger.Debug("Redis Repositories 初始化完成")

	// --- 6. 初始化服务层 (Services) ---
	// 未配置 Kafka 时保持 EventProducer 为 nil 接口，服务层会跳过事件发送。
	var eventProducer service.EventProducer
	if kafkaProducer != nil {
		eventProducer = kafkaProducer
	}
	wallService := service.NewWallService(wallRepo, logger)
	postService := service.NewPostService(txManager, postRepo, wallRepo, likeRepo, commentRepo, feedCache, eventProducer, logger)
	postListService := service.NewPostListService(postRepo, wallRepo, likeRepo, feedCache, userLikesCache, logger)
	likeService := service.NewLikeService(txManager, likeRepo, postRepo, userLikesCache, logger)
	commentService := service.NewCommentService(txManager, commentRepo, postRepo, logger)
	purgeService := service.NewPurgeService(txManager, postService, postRepo, likeRepo, commentRepo, userLikesCache, logger)
	logger.Debug("Services 初始化完成")

	// --- 7. 初始化控制器层 (Controllers) ---
	wallController := controller.NewWallController(wallService)
	postController := controller.NewPostController(postService, postListService)
	likeController := controller.NewLikeController(likeService)
	commentController := controller.NewCommentController(commentService)
	logger.Debug("Controllers 初始化完成")

	// --- 8. 初始化 Kafka 消费者 ---
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup
	consumerCtx, consumerCancel := context.WithCancel(context.Background())

	if len(cfg.KafkaConfig.Brokers) > 0 {
		groupID := cfg.KafkaConfig.ConsumerGroupID
		if groupID == "" {
			logger.Warn("Kafka ConsumerGroupID 未在配置中设置，将使用默认值 'wall_service_group'")
			groupID = "wall_service_group"
		}

		// 用户注销事件消费者：清理注销用户的帖子、点赞、评论
		userDeletedTopic := cfg.KafkaConfig.Topics.UserDeleted
		if userDeletedTopic != "" {
			purgeHandler := consumer.NewUserPurgeHandler(logger, purgeService)
			purgeConsumer, consumerErr := consumer.NewConsumer(
				&cfg.KafkaConfig,
				groupID,
				userDeletedTopic,
				purgeHandler,
				logger,
			)
			if consumerErr != nil {
				logger.Fatal("初始化 UserDeleted Kafka 消费者失败", zap.Error(consumerErr))
			}
			consumers = append(consumers, purgeConsumer)
			logger.Info("UserDeleted Kafka 消费者已准备就绪", zap.String("topic", userDeletedTopic))
		} else {
			logger.Warn("UserDeleted topic 未配置，跳过用户注销消费者创建")
		}

		if len(consumers) > 0 {
			logger.Info(fmt.Sprintf("准备启动 %d 个 Kafka 消费者...", len(consumers)))
			for _, c := range consumers {
				consumerWg.Add(1)
				go func(cons *consumer.Consumer) {
					defer consumerWg.Done()
					cons.Start(consumerCtx)
				}(c)
			}
		}
	} else {
		logger.Warn("Kafka Brokers 未配置，跳过所有 Kafka 消费者初始化。")
	}

	// --- 9. 初始化定时任务 ---
	auditTask := tasks.NewCounterAuditTask(auditRepo, logger)
	feedCacheTask := tasks.NewFeedCacheRefreshTask(wallRepo, postRepo, feedCache, logger)
	logger.Info("后台定时任务已初始化并启动")

	// --- 10. 设置 Gin 路由器 ---
	ginRouter := router.SetupRouter(logger, &cfg, wallController, postController, likeController, commentController)
	logger.Info("Gin 路由器已设置")

	// --- 11. 启动 HTTP 服务器 ---
	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}

	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 12. 实现优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancelFunc := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancelFunc()

	// a. 停止 HTTP 服务器 (允许处理完当前请求)
	logger.Info("正在关闭 HTTP 服务器...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 关闭 Kafka 消费者
	logger.Info("正在发送停止信号给 Kafka 消费者...")
	consumerCancel()
	consumerWg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭某个 Kafka 消费者时出错", zap.Error(err))
		}
	}
	logger.Info("所有 Kafka 消费者已停止。")

	// c. 关闭 Kafka 生产者
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
		} else {
			logger.Info("Kafka 生产者已关闭")
		}
	}

	// d. 停止定时任务调度器 (等待任务结束或总超时)
	logger.Info("正在停止定时任务...")
	for name, stopCtx := range map[string]context.Context{
		"计数器审计任务":   auditTask.Stop(),
		"信息流缓存刷新任务": feedCacheTask.Stop(),
	} {
		select {
		case <-stopCtx.Done():
			logger.Info(name + "已停止")
		case <-shutdownCtx.Done():
			logger.Error("等待定时任务停止超时", zap.String("task", name), zap.Error(shutdownCtx.Err()))
		}
	}
	logger.Info("所有定时任务已停止")

	logger.Info("服务已成功关闭")
}
