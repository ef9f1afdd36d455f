// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"iris-voice-go/pkg/token"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextSessionKey 是会话 claims 在 gin.Context 中的 key。
const ContextSessionKey = "session"

// SessionAuth 创建一个 Gin 中间件，校验 "Authorization: Bearer <token>" 会话令牌，
// 并将 *token.SessionClaims 存入上下文。
func SessionAuth(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "请求未包含授权头"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "无效的授权头格式"})
			return
		}

		claims, err := jwtManager.VerifyToken(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "无效或已过期的会话令牌"})
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Next()
	}
}

// SessionID 从上下文中取出会话 ID，必须在 SessionAuth 之后调用。
func SessionID(c *gin.Context) string {
	return c.MustGet(ContextSessionKey).(*token.SessionClaims).SessionID
}
