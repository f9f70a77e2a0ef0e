package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-backend-go/internal/service"
	"chat-backend-go/pkg/log"
)

// UserHandler 负责处理所有与用户相关的 API 请求。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest 定义了用户注册 API 的请求体结构。
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Create 处理用户注册请求。注册是唯一不需要认证的用户接口。
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	// 绑定并验证 JSON 请求体
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateUser: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：email、name 和 password 不能为空"})
		return
	}

	user, err := h.userService.Register(req.Email, req.Name, req.Password)
	if err != nil {
		log.Warnf("CreateUser: Registration failed for '%s', error: %v", req.Email, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// List 返回全部用户，仅管理员可访问。
func (h *UserHandler) List(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	users, err := h.userService.List(actor)
	if err != nil {
		log.Warnf("ListUsers: Denied for user %d, error: %v", actor.ID, err)
		respondError(c, err)
		return
	}

	log.Infof("Users retrieved. Count: %d", len(users))
	c.JSON(http.StatusOK, users)
}

// GetCurrent 返回当前登录用户。
// 用户信息已经由 AuthMiddleware 注入到上下文中。
func (h *UserHandler) GetCurrent(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, actor)
}

// Get 按 ID 返回用户，仅本人或管理员可访问。
func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(actor, userID)
	if err != nil {
		log.Warnf("GetUser: Failed for id %d, error: %v", userID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserRequest 定义了用户部分更新 API 的请求体结构。
// 缺省的字段保持原值不变。
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// Update 按 ID 更新用户，仅本人或管理员可访问。
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateUser: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}

	user, err := h.userService.Update(actor, userID, &service.UserPatch{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		log.Warnf("UpdateUser: Failed for id %d, error: %v", userID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete 按 ID 删除用户及其全部会话，仅本人或管理员可访问。
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Delete(actor, userID)
	if err != nil {
		log.Warnf("DeleteUser: Failed for id %d, error: %v", userID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
