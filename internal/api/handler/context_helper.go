package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"staff-roster/backend/internal/api/middleware"
)

// actorID 读取中间件注入的操作者标识
func actorID(c *gin.Context) string {
	return c.GetString(middleware.ActorIDKey)
}

// parseIDParam 解析路径中的数值 ID
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
