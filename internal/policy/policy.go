// Package policy 实现了资源访问的授权决策。
// 决策函数是纯函数：不做任何 IO，也不返回错误；
// 拒绝时由调用方向上层抛出 apperr.ErrForbidden。
package policy

import "chat-backend-go/internal/model"

// Action 是授权动作的类别。
type Action int

const (
	// SelfOrAdmin 允许资源所有者本人或任意管理员。
	SelfOrAdmin Action = iota
	// AdminOnly 仅允许管理员。
	AdminOnly
	// OwnerOnly 仅允许资源所有者本人，管理员没有豁免。
	// 所有会话操作使用该规则（与用户操作不同，不做 self-or-admin 统一）。
	OwnerOnly
)

// CanAct 判断 actor 是否允许对 ownerID 所拥有的资源执行 action 类别的操作。
func CanAct(actor *model.User, ownerID uint, action Action) bool {
	if actor == nil {
		return false
	}
	switch action {
	case SelfOrAdmin:
		return actor.ID == ownerID || actor.IsAdmin
	case AdminOnly:
		return actor.IsAdmin
	case OwnerOnly:
		return actor.ID == ownerID
	default:
		return false
	}
}
