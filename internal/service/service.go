package service

import (
	"go.uber.org/zap"

	"staff-roster/backend/config"
	"staff-roster/backend/internal/repository"
	"staff-roster/backend/pkg/timex"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Compose  ComposeService
	Pending  PendingService
	Snapshot SnapshotService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(cfg *config.Config, repo *repository.Repository, conv *timex.Converter, notifier Notifier, logger *zap.Logger) *Service {
	compose := NewComposeService(repo, conv, notifier, logger)
	return &Service{
		Compose:  compose,
		Pending:  NewPendingService(repo, conv, notifier, logger),
		Snapshot: NewSnapshotService(repo, conv, notifier, logger, cfg.Schedule.HistoryWindowDays),
		Export:   NewExportService(compose, conv, logger),
	}
}
