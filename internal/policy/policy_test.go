package policy

import (
	"testing"

	"chat-backend-go/internal/model"
)

func TestCanAct(t *testing.T) {
	t.Parallel()

	owner := &model.User{ID: 1}
	other := &model.User{ID: 2}
	admin := &model.User{ID: 3, IsAdmin: true}

	tests := []struct {
		name    string
		actor   *model.User
		ownerID uint
		action  Action
		want    bool
	}{
		{"self_or_admin: owner", owner, 1, SelfOrAdmin, true},
		{"self_or_admin: admin", admin, 1, SelfOrAdmin, true},
		{"self_or_admin: other", other, 1, SelfOrAdmin, false},
		{"admin_only: admin", admin, 0, AdminOnly, true},
		{"admin_only: owner", owner, 1, AdminOnly, false},
		{"owner_only: owner", owner, 1, OwnerOnly, true},
		{"owner_only: admin has no override", admin, 1, OwnerOnly, false},
		{"owner_only: other", other, 1, OwnerOnly, false},
		{"nil actor", nil, 1, SelfOrAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAct(tt.actor, tt.ownerID, tt.action); got != tt.want {
				t.Fatalf("CanAct() = %v, want %v", got, tt.want)
			}
		})
	}
}
