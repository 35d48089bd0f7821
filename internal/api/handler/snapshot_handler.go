package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"staff-roster/backend/internal/dto"
	"staff-roster/backend/internal/service"
	"staff-roster/backend/pkg/response"
	"staff-roster/backend/pkg/timex"
)

// SnapshotHandler 快照与回滚模块 HTTP 处理器
type SnapshotHandler struct {
	snapshotSvc service.SnapshotService
	conv        *timex.Converter
}

// NewSnapshotHandler 创建 SnapshotHandler
func NewSnapshotHandler(snapshotSvc service.SnapshotService, conv *timex.Converter) *SnapshotHandler {
	return &SnapshotHandler{snapshotSvc: snapshotSvc, conv: conv}
}

// Create 手动触发快照；date 省略时快照本地"昨天"
// POST /api/v1/snapshots
func (h *SnapshotHandler) Create(c *gin.Context) {
	var req dto.CreateSnapshotRequest
	// 无请求体等同于省略 date，走默认的昨日快照
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 23001, "参数校验失败")
		return
	}

	var (
		result *dto.SnapshotLogResponse
		err    error
	)
	if req.Date == "" {
		result, err = h.snapshotSvc.CreateDaily(c.Request.Context())
	} else {
		date, perr := h.conv.ParseLocalDate(req.Date)
		if perr != nil {
			response.BadRequest(c, 23001, "日期格式无效，应为YYYY-MM-DD")
			return
		}
		result, err = h.snapshotSvc.CreateManual(c.Request.Context(), date)
	}
	if err != nil {
		h.handleSnapshotError(c, err)
		return
	}

	response.Created(c, result)
}

// Rollback 回滚指定批次
// POST /api/v1/snapshots/:batch_id/rollback
func (h *SnapshotHandler) Rollback(c *gin.Context) {
	batchID := c.Param("batch_id")
	if batchID == "" {
		response.BadRequest(c, 23001, "批次ID不能为空")
		return
	}

	result, err := h.snapshotSvc.Rollback(c.Request.Context(), batchID)
	if err != nil {
		h.handleSnapshotError(c, err)
		return
	}

	response.OK(c, result)
}

// History 快照批次历史
// GET /api/v1/snapshots?days=30
func (h *SnapshotHandler) History(c *gin.Context) {
	var req dto.SnapshotHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 23001, "参数校验失败")
		return
	}

	result, err := h.snapshotSvc.History(c.Request.Context(), req.Days)
	if err != nil {
		h.handleSnapshotError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// handleSnapshotError 快照模块错误分发
func (h *SnapshotHandler) handleSnapshotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBatchNotFound):
		response.NotFound(c, 23002, err.Error())
	case errors.Is(err, service.ErrBatchAlreadyRolledBack):
		response.Conflict(c, 23003, err.Error())
	default:
		response.InternalError(c)
	}
}
