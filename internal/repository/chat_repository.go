package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chat-backend-go/internal/apperr"
	"chat-backend-go/internal/model"
)

// ChatRepository 接口定义了会话与消息数据的持久化操作。
type ChatRepository interface {
	Create(chat *model.Chat) error
	FindByOwner(ownerID uint) ([]model.Chat, error)
	FindByIDAndOwner(chatID, ownerID uint) (*model.Chat, error)
	DeleteCascade(chat *model.Chat) error
	AppendMessage(chatID uint, role model.Role, content string) (*model.ChatMessage, error)
	FindMessages(chatID uint) ([]model.ChatMessage, error)
}

// chatRepository 是 ChatRepository 接口的 GORM 实现。
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建一个新的 ChatRepository 实例。
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Create 在数据库中创建一个新的会话记录。
func (r *chatRepository) Create(chat *model.Chat) error {
	return r.db.Create(chat).Error
}

// FindByOwner 检索某个用户拥有的所有会话。
func (r *chatRepository) FindByOwner(ownerID uint) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.Where("user_id = ?", ownerID).Find(&chats).Error
	return chats, err
}

// FindByIDAndOwner 按会话 ID 和所有者查找会话。
// 会话存在但归属其他用户时同样返回 gorm.ErrRecordNotFound。
func (r *chatRepository) FindByIDAndOwner(chatID, ownerID uint) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.Where("id = ? AND user_id = ?", chatID, ownerID).First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteCascade 在单个事务中删除会话及其全部消息。
func (r *chatRepository) DeleteCascade(chat *model.Chat) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(chat).Error
	})
}

// AppendMessage 以 compare-and-append 的方式向会话追加一条消息。
// 整个检查加插入在一个事务内完成，并对最新一条消息加行锁，
// 因此两个并发追加不可能同时通过交替检查（避免写偏斜）。
func (r *chatRepository) AppendMessage(chatID uint, role model.Role, content string) (*model.ChatMessage, error) {
	message := &model.ChatMessage{
		ChatID:  chatID,
		Role:    role,
		Content: content,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("chat_id = ?", chatID).Order("created_at DESC, id DESC")
		// SQLite 不支持行级锁语法，其写入本身是串行的
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var last model.ChatMessage
		err := query.First(&last).Error
		if err != nil {
			// 会话还没有任何消息：第一条消息不受交替约束，角色任意。
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else if last.Role == role {
			return apperr.ErrInvalidSequence
		}
		return tx.Create(message).Error
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// FindMessages 检索会话内的全部消息，按创建时间升序排列。
func (r *chatRepository) FindMessages(chatID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}
