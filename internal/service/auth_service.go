// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"chat-backend-go/internal/apperr"
	"chat-backend-go/internal/model"
	"chat-backend-go/internal/repository"
	"chat-backend-go/pkg/hash"
	"chat-backend-go/pkg/log"
	"chat-backend-go/pkg/token"
)

// AuthService 接口定义了认证相关的业务操作。
type AuthService interface {
	Login(email, password string) (string, error)
	Resolve(ctx context.Context, tokenString string) (*model.User, error)
	Logout(ctx context.Context, tokenString string) error
}

// authService 是 AuthService 接口的实现。
type authService struct {
	userRepo   repository.UserRepository
	blacklist  repository.TokenBlacklist
	jwtManager *token.JWTManager
}

// NewAuthService 创建一个新的 AuthService 实例。
func NewAuthService(userRepo repository.UserRepository, blacklist repository.TokenBlacklist, jwtManager *token.JWTManager) AuthService {
	return &authService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		jwtManager: jwtManager,
	}
}

// Login 校验凭证并签发 access token，subject 为用户邮箱。
// 用户不存在返回 apperr.ErrNotFound，密码错误返回 apperr.ErrInvalidCredentials。
func (s *authService) Login(email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.ErrNotFound
		}
		return "", err
	}

	if !hash.CheckPasswordHash(password, user.PasswordHash) {
		return "", apperr.ErrInvalidCredentials
	}

	return s.jwtManager.Generate(user.Email)
}

// Resolve 将 token 解析回用户身份。
// 任何失败（签名无效、过期、缺少 subject、已登出、用户已被删除）都统一返回
// apperr.ErrUnauthenticated，调用方无法区分具体原因。
func (s *authService) Resolve(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.jwtManager.Verify(tokenString)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}

	revoked, err := s.blacklist.Contains(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperr.ErrUnauthenticated
	}

	user, err := s.userRepo.FindByEmail(claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// Logout 将 token 加入黑名单，使其在剩余有效期内失效。
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.Verify(tokenString)
	if err != nil {
		return apperr.ErrUnauthenticated
	}

	expiration := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.Add(ctx, tokenString, expiration); err != nil {
		log.Error("[AuthService] 写入 token 黑名单失败", err)
		return err
	}
	return nil
}
