package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/wall_service/models/events"
	"github.com/Xushengqwer/wall_service/service"
)

// todo  未配置死信队列

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// --- UserPurgeHandler ---

// UserPurgeHandler 消费用户服务发出的注销事件，清理该用户在墙贴系统中的全部内容。
// - 清理逻辑幂等，事件重复投递是安全的。
type UserPurgeHandler struct {
	logger   *core.ZapLogger
	purgeSvc service.PurgeService
}

func NewUserPurgeHandler(logger *core.ZapLogger, purgeSvc service.PurgeService) *UserPurgeHandler {
	return &UserPurgeHandler{
		logger:   logger,
		purgeSvc: purgeSvc,
	}
}

func (h *UserPurgeHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("UserPurgeHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.UserDeletedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("UserPurgeHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	if event.UserID == "" {
		h.logger.Warn("UserPurgeHandler: 事件缺少 user_id，忽略", zap.String("event_id", event.EventID))
		return nil
	}

	h.logger.Info("UserPurgeHandler: 成功解析用户注销消息",
		zap.String("event_id", event.EventID),
		zap.String("user_id", event.UserID))

	// 清理可能涉及大量内容，使用独立的超时而不是消费循环的 30 秒。
	purgeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := h.purgeSvc.PurgeUserContent(purgeCtx, event.UserID); err != nil {
		h.logger.Error("UserPurgeHandler: 清理用户内容失败", zap.Error(err), zap.String("user_id", event.UserID))
		// 返回错误以便记录；清理幂等，后续重试不会造成重复计数。
		return fmt.Errorf("UserPurgeHandler: 调用 PurgeUserContent 失败: %w", err)
	}

	h.logger.Info("UserPurgeHandler: 用户内容清理完成", zap.String("user_id", event.UserID))
	return nil
}
