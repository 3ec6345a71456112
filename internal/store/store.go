package store

import "github.com/woomsg/woomsg/internal/models"

// Table identifies one of the four tables. Generic primitives accept only
// values of this closed set; table names are never interpolated from input.
type Table int

const (
	TableUser Table = iota
	TableChat
	TableChatRel
	TableMessage
)

func (t Table) String() string {
	switch t {
	case TableUser:
		return "user"
	case TableChat:
		return "chat"
	case TableChatRel:
		return "chat_rel"
	case TableMessage:
		return "message"
	}
	return "unknown"
}

// ParseTable maps a table name from a trusted route segment onto the enum.
// Unknown names report ok=false; nothing is ever interpolated into SQL.
func ParseTable(name string) (Table, bool) {
	switch name {
	case "user":
		return TableUser, true
	case "chat":
		return TableChat, true
	case "chat_rel":
		return TableChatRel, true
	case "message":
		return TableMessage, true
	}
	return 0, false
}

// Record is a raw row keyed by column name, suitable for direct JSON
// serialization by the HTTP layer.
type Record map[string]any

type Store interface {
	// InitSchema drops and recreates all four tables. Destructive; intended
	// for first-run or test setup only.
	InitSchema() error

	// Generic primitives.
	GetByID(table Table, id int) (Record, bool, error)
	GetAll(table Table) ([]Record, error)
	DeleteByID(table Table, id int) error

	// User operations.
	InsertUser(name, email, username, passwordHash string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	GetUserID(username string) (int, error)
	UpdateUserName(userID int, name string) (*models.User, error)

	// Chat and membership operations.
	InsertChat(title, time string) (*models.Chat, error)
	UpdateChatTitle(chatID int, title string) (*models.Chat, error)
	InsertChatRel(userID, chatID int) (*models.ChatParticipant, error)
	RemoveUserFromChat(username string, chatID int) error
	CreateChatRoom(title, time string, userIDs []int) (int, error)

	// Message operations.
	InsertMessage(content, time string, userID, chatID int) (*models.Message, error)
	UpdateMessage(content string, userID, messageID int) (*models.Message, error)

	// Read views.
	MessagesInRoom(chatID int) ([]models.ChatMessage, error)
	ChatRoomsForUser(userID int) ([]models.ChatRoom, error)
	ParticipantsInChat(chatID int) ([]string, error)
	RoomInfo(chatID int) (*models.RoomInfo, error)
}
