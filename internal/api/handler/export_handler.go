package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"staff-roster/backend/internal/service"
	"staff-roster/backend/pkg/response"
	"staff-roster/backend/pkg/timex"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	conv      *timex.Converter
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, conv *timex.Converter) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, conv: conv}
}

// DayXLSX 导出某本地日的合成班次 Excel
// GET /api/v1/exports/schedules/:date/xlsx
func (h *ExportHandler) DayXLSX(c *gin.Context) {
	date, err := h.conv.ParseLocalDate(c.Param("date"))
	if err != nil {
		response.BadRequest(c, 24001, "日期格式无效，应为YYYY-MM-DD")
		return
	}

	buf, filename, err := h.exportSvc.ExportDayXLSX(c.Request.Context(), date)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// StaffICS 导出某员工区间内的合成班次 ICS 日历
// GET /api/v1/exports/staff/:id/ics?from=&to=
func (h *ExportHandler) StaffICS(c *gin.Context) {
	staffID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 24001, "员工ID无效")
		return
	}

	from, err := h.conv.ParseLocalDate(c.Query("from"))
	if err != nil {
		response.BadRequest(c, 24001, "from日期格式无效")
		return
	}
	to, err := h.conv.ParseLocalDate(c.Query("to"))
	if err != nil {
		response.BadRequest(c, 24001, "to日期格式无效")
		return
	}
	if to.Before(from) {
		response.BadRequest(c, 24001, "to不能早于from")
		return
	}

	ical, err := h.exportSvc.ExportStaffICS(c.Request.Context(), staffID, from, to)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="staff-%d.ics"`, staffID))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ical))
}
