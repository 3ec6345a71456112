package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/woomsg/woomsg/internal/store"
	"github.com/woomsg/woomsg/internal/store/sqlstore"
)

func newTestService(t *testing.T) (*Service, *sqlstore.SQLStore) {
	t.Helper()
	s, err := sqlstore.New("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, zap.NewNop(), bcrypt.MinCost), s
}

func TestRegisterAndVerifyLogin(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.RegisterUser("A", "a@x.com", "a", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", user.PasswordHash)

	verified, err := svc.VerifyLogin("a", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	_, err = svc.VerifyLogin("a", "wrong")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	// Unknown usernames fail the same way as wrong passwords.
	_, err = svc.VerifyLogin("nobody", "pw")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
}

func TestRegisterUserIdempotent(t *testing.T) {
	svc, s := newTestService(t)

	user, err := svc.RegisterUser("A", "a@x.com", "a", "pw")
	require.NoError(t, err)

	again, err := svc.RegisterUser("Other", "other@x.com", "a", "different")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	records, err := s.GetAll(store.TableUser)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	// The original password still works.
	_, err = svc.VerifyLogin("a", "pw")
	assert.NoError(t, err)
}

func TestCreateChatRoomAllOrNothing(t *testing.T) {
	svc, s := newTestService(t)

	_, err := svc.RegisterUser("Valid", "valid@x.com", "validUser", "pw")
	require.NoError(t, err)

	_, err = svc.CreateChatRoom("T", []string{"validUser", "noSuchUser"}, 0)
	var invalid *store.InvalidParticipantError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "noSuchUser", invalid.Username)

	chats, err := s.GetAll(store.TableChat)
	require.NoError(t, err)
	assert.Empty(t, chats)
	rels, err := s.GetAll(store.TableChatRel)
	require.NoError(t, err)
	assert.Empty(t, rels)
}

func TestCreateChatRoomAddsCreator(t *testing.T) {
	svc, s := newTestService(t)

	creator, err := svc.RegisterUser("Creator", "c@x.com", "creator", "pw")
	require.NoError(t, err)
	_, err = svc.RegisterUser("Guest", "g@x.com", "guest", "pw")
	require.NoError(t, err)

	chatID, err := svc.CreateChatRoom("Room", []string{"guest"}, creator.ID)
	require.NoError(t, err)
	assert.NotZero(t, chatID)

	names, err := s.ParticipantsInChat(chatID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Creator", "Guest"}, names)
}

func TestMessageRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.RegisterUser("Jemal", "j@w.edu", "jemal", "pw1")
	require.NoError(t, err)

	chat, err := svc.CreateChat("Cool chat", "2018-04-25 21:49")
	require.NoError(t, err)

	_, err = svc.AddParticipant(user.ID, chat.ID)
	require.NoError(t, err)

	_, err = svc.PostMessage("hi", "2018-04-25 21:50", user.ID, chat.ID)
	require.NoError(t, err)

	messages, err := svc.MessagesInRoom(chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Jemal", messages[0].Name)
	assert.Equal(t, "hi", messages[0].Content)
	assert.Equal(t, "Cool chat", messages[0].Title)
}

func TestPostMessageDanglingReference(t *testing.T) {
	svc, s := newTestService(t)

	chat, err := svc.CreateChat("Room", "2018-04-25 21:49")
	require.NoError(t, err)

	_, err = svc.PostMessage("msg", "2018-04-25 21:50", 9999, chat.ID)
	assert.ErrorIs(t, err, store.ErrForeignKey)

	records, err := s.GetAll(store.TableMessage)
	require.NoError(t, err)
	assert.Empty(t, records)
}
