package handler

import (
	"staff-roster/backend/internal/service"
	"staff-roster/backend/pkg/timex"
)

// Handler 聚合所有 HTTP 处理器，供路由注册使用
type Handler struct {
	Schedule *ScheduleHandler
	Pending  *PendingHandler
	Snapshot *SnapshotHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, conv *timex.Converter) *Handler {
	return &Handler{
		Schedule: NewScheduleHandler(svc.Compose, conv),
		Pending:  NewPendingHandler(svc.Pending),
		Snapshot: NewSnapshotHandler(svc.Snapshot, conv),
		Export:   NewExportHandler(svc.Export, conv),
	}
}
