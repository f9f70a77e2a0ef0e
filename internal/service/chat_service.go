package service

import (
	"errors"

	"gorm.io/gorm"

	"chat-backend-go/internal/apperr"
	"chat-backend-go/internal/model"
	"chat-backend-go/internal/policy"
	"chat-backend-go/internal/repository"
	"chat-backend-go/pkg/log"
)

// ChatService 接口定义了会话与消息相关的业务操作。
// 所有操作都要求操作者就是资源所有者本人，管理员没有豁免。
type ChatService interface {
	CreateChat(actor *model.User, ownerID uint, name string, description *string) (*model.Chat, error)
	ListChats(actor *model.User, ownerID uint) ([]model.Chat, error)
	DeleteChat(actor *model.User, ownerID, chatID uint) (*model.Chat, error)
	AddMessage(actor *model.User, ownerID, chatID uint, role model.Role, content string) (*model.ChatMessage, error)
	ListMessages(actor *model.User, ownerID, chatID uint) ([]model.ChatMessage, error)
}

// chatService 是 ChatService 接口的实现。
type chatService struct {
	chatRepo repository.ChatRepository
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(chatRepo repository.ChatRepository) ChatService {
	return &chatService{chatRepo: chatRepo}
}

// CreateChat 为所有者创建一个新会话，ID 和创建时间由服务端分配。
func (s *chatService) CreateChat(actor *model.User, ownerID uint, name string, description *string) (*model.Chat, error) {
	if !policy.CanAct(actor, ownerID, policy.OwnerOnly) {
		return nil, apperr.ErrForbidden
	}
	chat := &model.Chat{
		UserID:      ownerID,
		Name:        name,
		Description: description,
	}
	if err := s.chatRepo.Create(chat); err != nil {
		log.Errorf("[ChatService] 创建会话失败, ownerID: %d, error: %v", ownerID, err)
		return nil, err
	}
	return chat, nil
}

// ListChats 返回所有者的全部会话。
func (s *chatService) ListChats(actor *model.User, ownerID uint) ([]model.Chat, error) {
	if !policy.CanAct(actor, ownerID, policy.OwnerOnly) {
		return nil, apperr.ErrForbidden
	}
	return s.chatRepo.FindByOwner(ownerID)
}

// DeleteChat 删除会话及其全部消息，返回被删除会话的最后状态。
func (s *chatService) DeleteChat(actor *model.User, ownerID, chatID uint) (*model.Chat, error) {
	if !policy.CanAct(actor, ownerID, policy.OwnerOnly) {
		return nil, apperr.ErrForbidden
	}
	chat, err := s.findOwnedChat(chatID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.chatRepo.DeleteCascade(chat); err != nil {
		log.Errorf("[ChatService] 删除会话失败, chatID: %d, error: %v", chatID, err)
		return nil, err
	}
	return chat, nil
}

// AddMessage 向会话追加一条消息。
// 新消息的角色不能与最近一条消息相同；空会话的第一条消息角色任意。
func (s *chatService) AddMessage(actor *model.User, ownerID, chatID uint, role model.Role, content string) (*model.ChatMessage, error) {
	if !policy.CanAct(actor, ownerID, policy.OwnerOnly) {
		return nil, apperr.ErrForbidden
	}
	chat, err := s.findOwnedChat(chatID, ownerID)
	if err != nil {
		return nil, err
	}
	message, err := s.chatRepo.AppendMessage(chat.ID, role, content)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidSequence) {
			log.Warnf("[ChatService] 消息角色未交替, chatID: %d, role: %s", chatID, role)
		}
		return nil, err
	}
	return message, nil
}

// ListMessages 返回会话内按创建时间升序排列的全部消息。
func (s *chatService) ListMessages(actor *model.User, ownerID, chatID uint) ([]model.ChatMessage, error) {
	if !policy.CanAct(actor, ownerID, policy.OwnerOnly) {
		return nil, apperr.ErrForbidden
	}
	chat, err := s.findOwnedChat(chatID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.chatRepo.FindMessages(chat.ID)
}

// findOwnedChat 按所有者查找会话，缺失时翻译为业务层的 ErrNotFound。
func (s *chatService) findOwnedChat(chatID, ownerID uint) (*model.Chat, error) {
	chat, err := s.chatRepo.FindByIDAndOwner(chatID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return chat, nil
}
