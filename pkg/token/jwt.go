// Package token 提供了用于生成和验证 JSON Web Tokens (JWT) 的功能。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 默认有效期：当配置未指定 ttl 时使用。
const defaultTokenDuration = 15 * time.Minute

var (
	// ErrInvalidToken 表示 token 签名无效、格式错误或已过期。
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSubject 表示 token 解码成功但缺少 subject 声明。
	ErrMissingSubject = errors.New("token has no subject")
)

// JWTManager 负责管理 JWT 的生成和验证。
type JWTManager struct {
	secretKey []byte            // secretKey 用于签名和验证 token 的密钥
	method    jwt.SigningMethod // method 是配置指定的 HMAC 签名算法
	tokenDur  time.Duration     // tokenDur 定义了 access token 的有效期
}

// Claims 定义了存储在 JWT 中的声明。
// subject 是用户的邮箱，过期时间由 RegisteredClaims 携带。
type Claims struct {
	jwt.RegisteredClaims
}

// NewJWTManager 创建一个新的 JWTManager 实例。
// secret: 用于签名的密钥字符串。
// algorithm: 签名算法名称，仅支持 HMAC 家族（HS256/HS384/HS512）。
// expireMinutes: access token 的过期时间（分钟），非正数时回退到默认 15 分钟。
func NewJWTManager(secret, algorithm string, expireMinutes int) (*JWTManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm: %s", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %s", algorithm)
	}

	dur := defaultTokenDuration
	if expireMinutes > 0 {
		dur = time.Duration(expireMinutes) * time.Minute
	}

	return &JWTManager{
		secretKey: []byte(secret),
		method:    method,
		tokenDur:  dur,
	}, nil
}

// Generate 为给定的邮箱生成一个新的 access token。
func (m *JWTManager) Generate(email string) (string, error) {
	// 创建 claims，subject 为邮箱，过期时间为当前时间加有效期
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(m.method, claims)
	// 使用密钥签名 token 并返回字符串形式
	return token.SignedString(m.secretKey)
}

// Verify 验证给定的 token 字符串。
// 如果 token 有效且携带 subject，返回 Claims 对象。
// 签名不匹配、格式错误或已过期返回 ErrInvalidToken；
// 缺少 subject 返回 ErrMissingSubject。
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	// 解析 token 字符串
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 检查签名方法是否为 HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		// 返回密钥用于验证
		return m.secretKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	// 从解析后的 token 中提取 claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
