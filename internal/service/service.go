// Package service holds the application-level rules on top of the storage
// engine: password hashing and uniqueness on registration, all-or-nothing
// participant validation on room creation, and the read views the HTTP
// layer serves.
package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/woomsg/woomsg/internal/auth"
	"github.com/woomsg/woomsg/internal/models"
	"github.com/woomsg/woomsg/internal/store"
)

// timeFormat is the minute-resolution timestamp used for chats and
// messages. Lexicographic order matches chronological order.
const timeFormat = "2006-01-02 15:04"

type Service struct {
	store      store.Store
	log        *zap.Logger
	bcryptCost int
}

func New(s store.Store, log *zap.Logger, bcryptCost int) *Service {
	return &Service{store: s, log: log, bcryptCost: bcryptCost}
}

// RegisterUser hashes the password and inserts the user. Registration is
// idempotent: when the username or email is already taken, the existing row
// is returned and no new row is created.
func (s *Service) RegisterUser(name, email, username, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.InsertUser(name, email, username, hash)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// VerifyLogin checks a username/password pair. Unknown username and wrong
// password both come back as store.ErrInvalidCredentials so the response
// does not reveal which one failed.
func (s *Service) VerifyLogin(username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, store.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) FindUserByUsername(username string) (*models.User, error) {
	return s.store.GetUserByUsername(username)
}

func (s *Service) FindUserID(username string) (int, error) {
	return s.store.GetUserID(username)
}

// CreateChat creates a chat deduplicated by title.
func (s *Service) CreateChat(title, timestamp string) (*models.Chat, error) {
	return s.store.InsertChat(title, timestamp)
}

// AddParticipant links a user to a chat, returning the existing link when
// the pair is already present.
func (s *Service) AddParticipant(userID, chatID int) (*models.ChatParticipant, error) {
	return s.store.InsertChatRel(userID, chatID)
}

// CreateChatRoom validates every username, then creates the chat and adds
// all named users plus the creator as participants in one transaction. If
// any username does not resolve, nothing is created and the bad username is
// reported via *store.InvalidParticipantError.
func (s *Service) CreateChatRoom(title string, usernames []string, creatorID int) (int, error) {
	userIDs := make([]int, 0, len(usernames)+1)
	for _, username := range usernames {
		id, err := s.store.GetUserID(username)
		if errors.Is(err, store.ErrNotFound) {
			return 0, &store.InvalidParticipantError{Username: username}
		}
		if err != nil {
			return 0, err
		}
		userIDs = append(userIDs, id)
	}
	if creatorID != 0 {
		userIDs = append(userIDs, creatorID)
	}

	chatID, err := s.store.CreateChatRoom(title, now(), userIDs)
	if err != nil {
		return 0, err
	}
	s.log.Info("chat room created", zap.Int("chat_id", chatID), zap.Int("participants", len(userIDs)))
	return chatID, nil
}

// PostMessage inserts a message. Not idempotent; dangling user or chat ids
// surface as store.ErrForeignKey.
func (s *Service) PostMessage(content, timestamp string, userID, chatID int) (*models.Message, error) {
	if timestamp == "" {
		timestamp = now()
	}
	return s.store.InsertMessage(content, timestamp, userID, chatID)
}

func (s *Service) UpdateMessage(content string, userID, messageID int) (*models.Message, error) {
	return s.store.UpdateMessage(content, userID, messageID)
}

func (s *Service) UpdateUserName(userID int, name string) (*models.User, error) {
	return s.store.UpdateUserName(userID, name)
}

func (s *Service) UpdateChatTitle(chatID int, title string) (*models.Chat, error) {
	return s.store.UpdateChatTitle(chatID, title)
}

func (s *Service) RemoveUserFromChat(username string, chatID int) error {
	if err := s.store.RemoveUserFromChat(username, chatID); err != nil {
		return err
	}
	s.log.Info("user left chat", zap.String("username", username), zap.Int("chat_id", chatID))
	return nil
}

func (s *Service) MessagesInRoom(chatID int) ([]models.ChatMessage, error) {
	return s.store.MessagesInRoom(chatID)
}

func (s *Service) ChatRoomsForUser(userID int) ([]models.ChatRoom, error) {
	return s.store.ChatRoomsForUser(userID)
}

func (s *Service) ParticipantsInChat(chatID int) ([]string, error) {
	return s.store.ParticipantsInChat(chatID)
}

func (s *Service) RoomInfo(chatID int) (*models.RoomInfo, error) {
	return s.store.RoomInfo(chatID)
}

func now() string {
	return time.Now().Format(timeFormat)
}
