package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-backend-go/internal/service"
	"chat-backend-go/pkg/log"
)

// AuthHandler 负责处理认证相关的 API 请求。
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// TokenRequest 定义了登录 API 的表单结构。
// 沿用 OAuth2 password flow 的字段命名，username 字段携带邮箱。
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Token 处理登录请求，用邮箱和密码换取 access token。
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warnf("Token: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：用户名和密码不能为空"})
		return
	}

	accessToken, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		log.Warnf("Token: Authentication failed for '%s', error: %v", req.Username, err)
		respondError(c, err)
		return
	}

	log.Infof("User '%s' logged in successfully", req.Username)
	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

// Logout 处理登出请求，将当前 token 加入黑名单。
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := c.GetString("token")

	if err := h.authService.Logout(c.Request.Context(), tokenString); err != nil {
		log.Error("Logout: Failed to logout", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
