package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staff-roster/backend/internal/dto"
	"staff-roster/backend/internal/service"
	"staff-roster/backend/pkg/response"
	"staff-roster/backend/pkg/timex"
)

// ScheduleHandler 合成班次模块 HTTP 处理器
type ScheduleHandler struct {
	composeSvc service.ComposeService
	conv       *timex.Converter
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(composeSvc service.ComposeService, conv *timex.Converter) *ScheduleHandler {
	return &ScheduleHandler{composeSvc: composeSvc, conv: conv}
}

// GetComposed 获取指定本地日全员权威合成班次
// GET /api/v1/schedules/composed?date=YYYY-MM-DD
func (h *ScheduleHandler) GetComposed(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		response.BadRequest(c, 21001, "date不能为空")
		return
	}
	date, err := h.conv.ParseLocalDate(dateStr)
	if err != nil {
		response.BadRequest(c, 21001, "date格式无效，应为YYYY-MM-DD")
		return
	}

	intervals, err := h.composeSvc.GetDaySchedule(c.Request.Context(), date)
	if err != nil {
		h.handleComposeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": intervals})
}

// GetStaffComposed 获取单员工指定本地日合成班次
// GET /api/v1/schedules/composed/staff/:id?date=YYYY-MM-DD&planning=true
func (h *ScheduleHandler) GetStaffComposed(c *gin.Context) {
	staffID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 21001, "员工ID无效")
		return
	}
	date, err := h.conv.ParseLocalDate(c.Query("date"))
	if err != nil {
		response.BadRequest(c, 21001, "date格式无效，应为YYYY-MM-DD")
		return
	}
	planning := c.Query("planning") == "true"

	intervals, err := h.composeSvc.GetStaffDay(c.Request.Context(), staffID, date, planning)
	if err != nil {
		h.handleComposeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": intervals})
}

// UpdateComposed 经变更闸门更新班次
// PUT /api/v1/schedules/composed/:id
func (h *ScheduleHandler) UpdateComposed(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 21001, "班次ID无效")
		return
	}

	var req dto.UpdateComposedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 21001, "参数校验失败")
		return
	}

	result, err := h.composeSvc.UpdateAdjustment(c.Request.Context(), id, &req)
	if err != nil {
		h.handleComposeError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteComposed 经变更闸门删除班次
// DELETE /api/v1/schedules/composed/:id
func (h *ScheduleHandler) DeleteComposed(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 21001, "班次ID无效")
		return
	}

	if err := h.composeSvc.DeleteAdjustment(c.Request.Context(), id); err != nil {
		h.handleComposeError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleComposeError 合成班次模块错误分发
func (h *ScheduleHandler) handleComposeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound),
		errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 21002, err.Error())
	case errors.Is(err, service.ErrContractNotEditable),
		errors.Is(err, service.ErrMonthlyNotEditable):
		response.Forbidden(c, 21003, err.Error())
	case errors.Is(err, service.ErrAlreadyDecided):
		response.Conflict(c, 22003, err.Error())
	case errors.Is(err, service.ErrUnknownIDBand),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrMalformedBaseline):
		response.BadRequest(c, 21004, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schedule_handler.go
