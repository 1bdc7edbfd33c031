package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/moments/internal/auth"
)

const viewerKey = "viewer_id"

// Auth 解析会话 token（cookie 优先，其次 Authorization: Bearer）。
// 没有或无效的 token 只是匿名请求，不会中断。
func Auth(tokens *auth.TokenManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := tokens.Parse(extractToken(c, cookieName)); err == nil {
			c.Request = c.Request.WithContext(auth.WithViewer(c.Request.Context(), claims))
			c.Set(viewerKey, claims.ID)
		}
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
