package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// ActorIDKey gin.Context 中操作者标识的键
	ActorIDKey = "actor_id"
	// 未携带操作者标识时的兜底值
	anonymousActor = "anonymous"

	actorIDMaxLen = 100
)

// Actor 操作者提取中间件
// 认证/会话属于外部协作方，本服务只从网关透传的 X-Actor-ID 头
// 取出操作者标识，用于审批流水与审计字段。
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor-ID")
		if actor == "" || len(actor) > actorIDMaxLen {
			actor = anonymousActor
		}

		c.Set(ActorIDKey, actor)

		c.Next()
	}
}
