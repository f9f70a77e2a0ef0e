package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chat-backend-go/internal/apperr"
	"chat-backend-go/internal/model"
	"chat-backend-go/internal/policy"
	"chat-backend-go/internal/repository"
	"chat-backend-go/pkg/hash"
	"chat-backend-go/pkg/log"
)

// UserPatch 枚举了用户部分更新时允许修改的字段。
// 为 nil 的字段保持原值不变。
type UserPatch struct {
	Email    *string
	Name     *string
	Password *string
}

// UserService 接口定义了所有与用户相关的业务操作。
type UserService interface {
	Register(email, name, password string) (*model.User, error)
	List(actor *model.User) ([]model.User, error)
	Get(actor *model.User, userID uint) (*model.User, error)
	Update(actor *model.User, userID uint, patch *UserPatch) (*model.User, error)
	Delete(actor *model.User, userID uint) (*model.User, error)
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register 处理用户注册的业务逻辑。注册不需要认证。
func (s *userService) Register(email, name, password string) (*model.User, error) {
	// 1. 检查邮箱是否已被注册
	_, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return nil, apperr.ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. 对密码进行哈希处理
	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	// 3. 创建新用户
	newUser := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Create(newUser); err != nil {
		log.Errorf("[UserService] 创建用户失败, email: %s, error: %v", email, err)
		return nil, err
	}

	log.Infof("Created user with id: %d", newUser.ID)
	return newUser, nil
}

// List 返回全部用户，仅管理员可调用。
func (s *userService) List(actor *model.User) ([]model.User, error) {
	if !policy.CanAct(actor, 0, policy.AdminOnly) {
		return nil, apperr.ErrForbidden
	}
	return s.userRepo.FindAll()
}

// Get 按 ID 获取用户，仅本人或管理员可调用。
func (s *userService) Get(actor *model.User, userID uint) (*model.User, error) {
	if !policy.CanAct(actor, userID, policy.SelfOrAdmin) {
		return nil, apperr.ErrForbidden
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update 按字段应用部分更新，仅本人或管理员可调用。
// 邮箱变更时校验唯一性（排除自身），密码变更时重新哈希。
func (s *userService) Update(actor *model.User, userID uint, patch *UserPatch) (*model.User, error) {
	if !policy.CanAct(actor, userID, policy.SelfOrAdmin) {
		return nil, apperr.ErrForbidden
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	if patch.Email != nil {
		existing, err := s.userRepo.FindByEmail(*patch.Email)
		if err == nil && existing.ID != userID {
			return nil, apperr.ErrDuplicateEmail
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Password != nil {
		hashedPassword, err := hash.HashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("密码哈希失败: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.userRepo.Update(user); err != nil {
		log.Errorf("[UserService] 更新用户失败, id: %d, error: %v", userID, err)
		return nil, err
	}
	log.Infof("Updated user with id: %d", user.ID)
	return user, nil
}

// Delete 删除用户及其全部会话和消息，仅本人或管理员可调用。
// 返回被删除记录的最后状态。
func (s *userService) Delete(actor *model.User, userID uint) (*model.User, error) {
	if !policy.CanAct(actor, userID, policy.SelfOrAdmin) {
		return nil, apperr.ErrForbidden
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	if err := s.userRepo.DeleteCascade(user); err != nil {
		log.Errorf("[UserService] 删除用户失败, id: %d, error: %v", userID, err)
		return nil, err
	}
	log.Infof("Deleted user with id: %d", userID)
	return user, nil
}
