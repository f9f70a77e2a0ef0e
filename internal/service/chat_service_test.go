package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-backend-go/internal/apperr"
	"chat-backend-go/internal/model"
	"chat-backend-go/internal/repository"
)

func newChatFixture(t *testing.T) (ChatService, *model.User, *model.User) {
	t.Helper()
	db := newTestDB(t)
	userSvc := NewUserService(repository.NewUserRepository(db))
	chatSvc := NewChatService(repository.NewChatRepository(db))

	alice, err := userSvc.Register("alice@example.com", "Alice", "pw")
	require.NoError(t, err)
	bob, err := userSvc.Register("bob@example.com", "Bob", "pw")
	require.NoError(t, err)
	return chatSvc, alice, bob
}

func TestCreateChat_OwnerOnly(t *testing.T) {
	t.Parallel()

	svc, alice, bob := newChatFixture(t)

	chat, err := svc.CreateChat(alice, alice.ID, "trip", nil)
	require.NoError(t, err)
	require.NotZero(t, chat.ID)
	require.False(t, chat.CreatedAt.IsZero())
	require.Nil(t, chat.Description)

	// 其他用户不能为别人创建会话
	_, err = svc.CreateChat(bob, alice.ID, "sneaky", nil)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	// 管理员同样没有豁免：会话创建只允许所有者本人
	admin := &model.User{ID: 99, IsAdmin: true}
	_, err = svc.CreateChat(admin, alice.ID, "managed", nil)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestListChats_OwnerScoped(t *testing.T) {
	t.Parallel()

	svc, alice, bob := newChatFixture(t)

	_, err := svc.CreateChat(alice, alice.ID, "one", nil)
	require.NoError(t, err)
	desc := "second chat"
	_, err = svc.CreateChat(alice, alice.ID, "two", &desc)
	require.NoError(t, err)

	chats, err := svc.ListChats(alice, alice.ID)
	require.NoError(t, err)
	require.Len(t, chats, 2)

	_, err = svc.ListChats(bob, alice.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	// bob 自己名下没有会话
	chats, err = svc.ListChats(bob, bob.ID)
	require.NoError(t, err)
	require.Empty(t, chats)
}

func TestDeleteChat(t *testing.T) {
	t.Parallel()

	svc, alice, bob := newChatFixture(t)

	chat, err := svc.CreateChat(alice, alice.ID, "trip", nil)
	require.NoError(t, err)
	_, err = svc.AddMessage(alice, alice.ID, chat.ID, model.RoleUser, "hi")
	require.NoError(t, err)

	// 他人不能删除
	_, err = svc.DeleteChat(bob, alice.ID, chat.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	deleted, err := svc.DeleteChat(alice, alice.ID, chat.ID)
	require.NoError(t, err)
	require.Equal(t, chat.ID, deleted.ID)

	// 会话连同消息一起消失
	_, err = svc.ListMessages(alice, alice.ID, chat.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	// 再删一次：不存在
	_, err = svc.DeleteChat(alice, alice.ID, chat.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddMessage_FirstMessageAnyRole(t *testing.T) {
	t.Parallel()

	svc, alice, _ := newChatFixture(t)

	// 空会话的第一条消息不受交替约束，assistant 开头同样合法
	chat, err := svc.CreateChat(alice, alice.ID, "assistant-first", nil)
	require.NoError(t, err)
	msg, err := svc.AddMessage(alice, alice.ID, chat.ID, model.RoleAssistant, "welcome")
	require.NoError(t, err)
	require.Equal(t, model.RoleAssistant, msg.Role)

	chat2, err := svc.CreateChat(alice, alice.ID, "user-first", nil)
	require.NoError(t, err)
	msg, err = svc.AddMessage(alice, alice.ID, chat2.ID, model.RoleUser, "hello")
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, msg.Role)
}

func TestAddMessage_AlternationScenario(t *testing.T) {
	t.Parallel()

	svc, alice, _ := newChatFixture(t)

	chat, err := svc.CreateChat(alice, alice.ID, "trip", nil)
	require.NoError(t, err)

	// 第一条 user 消息成功
	_, err = svc.AddMessage(alice, alice.ID, chat.ID, model.RoleUser, "hi")
	require.NoError(t, err)
	messages, err := svc.ListMessages(alice, alice.ID, chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	// 紧接着再发 user 消息违反交替约束
	_, err = svc.AddMessage(alice, alice.ID, chat.ID, model.RoleUser, "again")
	require.ErrorIs(t, err, apperr.ErrInvalidSequence)

	// assistant 回复成功
	_, err = svc.AddMessage(alice, alice.ID, chat.ID, model.RoleAssistant, "hello")
	require.NoError(t, err)

	messages, err = svc.ListMessages(alice, alice.ID, chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, model.RoleUser, messages[0].Role)
	require.Equal(t, "hi", messages[0].Content)
	require.Equal(t, model.RoleAssistant, messages[1].Role)
	require.Equal(t, "hello", messages[1].Content)

	// 失败的插入没有留下任何痕迹
	for i := 1; i < len(messages); i++ {
		require.NotEqual(t, messages[i-1].Role, messages[i].Role)
	}
}

func TestAddMessage_ChatNotFound(t *testing.T) {
	t.Parallel()

	svc, alice, bob := newChatFixture(t)

	_, err := svc.AddMessage(alice, alice.ID, 12345, model.RoleUser, "hi")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	// 别人的会话对所有者之外的人表现为 Forbidden，而不是泄露存在性
	chat, err := svc.CreateChat(alice, alice.ID, "trip", nil)
	require.NoError(t, err)
	_, err = svc.AddMessage(bob, alice.ID, chat.ID, model.RoleUser, "hi")
	require.ErrorIs(t, err, apperr.ErrForbidden)

	// 会话归属校验：bob 以自己的身份访问 alice 的会话 ID 得到 NotFound
	_, err = svc.AddMessage(bob, bob.ID, chat.ID, model.RoleUser, "hi")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListMessages_Authorization(t *testing.T) {
	t.Parallel()

	svc, alice, bob := newChatFixture(t)

	chat, err := svc.CreateChat(alice, alice.ID, "trip", nil)
	require.NoError(t, err)

	_, err = svc.ListMessages(bob, alice.ID, chat.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.ListMessages(alice, alice.ID, 12345)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
