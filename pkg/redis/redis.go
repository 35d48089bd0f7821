package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"staff-roster/backend/config"
)

// Client Redis 客户端封装
// 当前用作变更事件的尽力而为发布通道；失败由调用侧吞掉，不影响主流程
type Client struct {
	rdb     *goredis.Client
	channel string
	logger  *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, channel: cfg.Channel, logger: logger}, nil
}

// event 发布到频道的消息结构
type event struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Notify 将变更事件发布到配置的频道。实现 service.Notifier。
func (c *Client) Notify(ctx context.Context, name string, payload interface{}) error {
	body, err := json.Marshal(event{
		Event:     name,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	return c.rdb.Publish(ctx, c.channel, body).Err()
}

// Close 关闭底层连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
