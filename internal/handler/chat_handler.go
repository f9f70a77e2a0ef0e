package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-backend-go/internal/model"
	"chat-backend-go/internal/service"
	"chat-backend-go/pkg/log"
)

// ChatHandler 处理与会话及消息相关的 API 请求。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateChatRequest 定义了创建会话 API 的请求体结构。
type CreateChatRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// CreateChat 为路径中的用户创建一个新会话。
func (h *ChatHandler) CreateChat(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateChat: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：name 不能为空"})
		return
	}

	chat, err := h.chatService.CreateChat(actor, ownerID, req.Name, req.Description)
	if err != nil {
		log.Warnf("CreateChat: Failed for owner %d, error: %v", ownerID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// ListChats 返回路径中用户拥有的全部会话。
func (h *ChatHandler) ListChats(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	chats, err := h.chatService.ListChats(actor, ownerID)
	if err != nil {
		log.Warnf("ListChats: Failed for owner %d, error: %v", ownerID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

// DeleteChat 删除会话及其全部消息。
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	chatID, ok := pathID(c, "chatId")
	if !ok {
		return
	}

	chat, err := h.chatService.DeleteChat(actor, ownerID, chatID)
	if err != nil {
		log.Warnf("DeleteChat: Failed for chat %d, error: %v", chatID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// CreateMessageRequest 定义了追加消息 API 的请求体结构。
type CreateMessageRequest struct {
	Role    model.Role `json:"role" binding:"required,oneof=user assistant"`
	Content string     `json:"content" binding:"required"`
}

// CreateMessage 向会话追加一条消息，消息角色必须与上一条交替。
func (h *ChatHandler) CreateMessage(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	chatID, ok := pathID(c, "chatId")
	if !ok {
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateMessage: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：role 必须是 user 或 assistant，content 不能为空"})
		return
	}

	message, err := h.chatService.AddMessage(actor, ownerID, chatID, req.Role, req.Content)
	if err != nil {
		log.Warnf("CreateMessage: Failed for chat %d, error: %v", chatID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

// ListMessages 返回会话内按创建时间升序排列的全部消息。
func (h *ChatHandler) ListMessages(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	chatID, ok := pathID(c, "chatId")
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(actor, ownerID, chatID)
	if err != nil {
		log.Warnf("ListMessages: Failed for chat %d, error: %v", chatID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
