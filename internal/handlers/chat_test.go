package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woomsg/woomsg/internal/auth"
	"github.com/woomsg/woomsg/internal/middleware"
	"github.com/woomsg/woomsg/internal/store"
)

func authedRequest(t *testing.T, signer *auth.CookieSigner, method, path string, userID int, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.AddCookie(&http.Cookie{Name: "user_id", Value: signer.Sign(strconv.Itoa(userID))})
	return req
}

func TestCreateChatRoomHandler(t *testing.T) {
	svc, st := newTestService(t)
	signer := testSigner()
	handler := &ChatHandler{Service: svc, Validate: validator.New()}

	creator, err := svc.RegisterUser("Creator", "c@x.com", "creator", "pw12")
	require.NoError(t, err)
	_, err = svc.RegisterUser("Guest", "g@x.com", "guest", "pw12")
	require.NoError(t, err)

	req := authedRequest(t, signer, "POST", "/chats", creator.ID,
		CreateChatRoomRequest{Title: "Test Chat", Usernames: []string{"guest"}})
	rr := httptest.NewRecorder()
	middleware.Auth(signer)(http.HandlerFunc(handler.CreateChatRoom)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp map[string]int
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotZero(t, resp["id"])

	names, err := st.ParticipantsInChat(resp["id"])
	require.NoError(t, err)
	assert.Equal(t, []string{"Creator", "Guest"}, names)
}

func TestCreateChatRoomHandlerInvalidParticipant(t *testing.T) {
	svc, st := newTestService(t)
	signer := testSigner()
	handler := &ChatHandler{Service: svc, Validate: validator.New()}

	creator, err := svc.RegisterUser("Creator", "c@x.com", "creator", "pw12")
	require.NoError(t, err)

	req := authedRequest(t, signer, "POST", "/chats", creator.ID,
		CreateChatRoomRequest{Title: "Test Chat", Usernames: []string{"noSuchUser"}})
	rr := httptest.NewRecorder()
	middleware.Auth(signer)(http.HandlerFunc(handler.CreateChatRoom)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "noSuchUser", resp["username"])

	chats, err := st.GetAll(store.TableChat)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestGetChatsHandler(t *testing.T) {
	svc, _ := newTestService(t)
	signer := testSigner()
	handler := &ChatHandler{Service: svc, Validate: validator.New()}

	user, err := svc.RegisterUser("Alice", "a@x.com", "alice", "pw12")
	require.NoError(t, err)
	_, err = svc.CreateChatRoom("My Chat", nil, user.ID)
	require.NoError(t, err)

	req := authedRequest(t, signer, "GET", "/chats", user.ID, nil)
	rr := httptest.NewRecorder()
	middleware.Auth(signer)(http.HandlerFunc(handler.GetChats)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var rooms []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "My Chat", rooms[0]["title"])
}

func TestPostAndGetMessagesHandler(t *testing.T) {
	svc, _ := newTestService(t)
	signer := testSigner()
	handler := &ChatHandler{Service: svc, Validate: validator.New()}

	user, err := svc.RegisterUser("Jemal", "j@w.edu", "jemal", "pw12")
	require.NoError(t, err)
	chatID, err := svc.CreateChatRoom("Cool chat", nil, user.ID)
	require.NoError(t, err)

	path := "/chats/" + strconv.Itoa(chatID) + "/messages"

	req := authedRequest(t, signer, "POST", path, user.ID, PostMessageRequest{Message: "hi"})
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(chatID)})
	rr := httptest.NewRecorder()
	middleware.Auth(signer)(http.HandlerFunc(handler.PostMessage)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = authedRequest(t, signer, "GET", path, user.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(chatID)})
	rr = httptest.NewRecorder()
	middleware.Auth(signer)(http.HandlerFunc(handler.GetChatMessages)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var messages []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0]["message"])
	assert.Equal(t, "Jemal", messages[0]["name"])
}

func TestRoomInfoHandlerNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	signer := testSigner()
	handler := &ChatHandler{Service: svc, Validate: validator.New()}

	user, err := svc.RegisterUser("Alice", "a@x.com", "alice", "pw12")
	require.NoError(t, err)

	req := authedRequest(t, signer, "GET", "/chats/9999", user.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"id": "9999"})
	rr := httptest.NewRecorder()
	middleware.Auth(signer)(http.HandlerFunc(handler.GetRoomInfo)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
