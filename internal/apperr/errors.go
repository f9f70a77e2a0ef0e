// Package apperr 定义了业务层的错误类型。
// 所有错误在 handler 边界被识别并映射为 HTTP 状态码，不会穿透为进程崩溃。
package apperr

import "errors"

// 资源
var (
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// 认证与授权
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("forbidden")
)

// 对话
var (
	// ErrInvalidSequence 表示新消息的角色与上一条消息相同，违反了交替约束。
	ErrInvalidSequence = errors.New("message roles need to alternate between user and assistant")
)
