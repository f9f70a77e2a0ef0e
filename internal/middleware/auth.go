// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chat-backend-go/internal/service"
)

// ContextUserKey 是认证中间件向 Gin 上下文注入用户对象使用的键。
const ContextUserKey = "user"

// AuthMiddleware 创建一个 Gin 中间件，用于 Bearer token 认证。
// 它从请求头中提取 token，交由 AuthService 解析回用户身份，
// 并将完整的 User 对象存入 Gin 的上下文中。
// token 无效、已过期、已登出或用户已被删除，对调用方统一表现为 401。
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从 Authorization 请求头中获取 token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请求未包含授权头"})
			return
		}

		// Token 以 "Bearer <token>" 的形式提供，提取出 token 本身
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的授权头格式"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		user, err := authService.Resolve(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
			return
		}

		// 将完整的 User 对象存储在 context 中，供后续处理函数使用
		c.Set(ContextUserKey, user)

		// 登出接口需要原始 token 字符串
		c.Set("token", tokenString)

		// 继续处理请求链中的下一个处理器
		c.Next()
	}
}
