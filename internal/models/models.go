package models

// User is a registered account. PasswordHash holds the bcrypt hash of the
// password and is never serialized.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Chat is a named room. Time is the creation timestamp and never changes
// after insert; the title may be renamed.
type Chat struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Time  string `json:"time"`
}

// ChatParticipant links a user to a chat. A given (UserID, ChatID) pair
// exists at most once.
type ChatParticipant struct {
	ID     int `json:"id"`
	UserID int `json:"user_id"`
	ChatID int `json:"chat_id"`
}

type Message struct {
	ID      int    `json:"id"`
	Content string `json:"message"`
	Time    string `json:"time"`
	UserID  int    `json:"user_id"`
	ChatID  int    `json:"chat_id"`
}

// ChatMessage is a message row enriched with the sender's display name and
// the room's title and creation time, as rendered in a room view.
type ChatMessage struct {
	Name    string `json:"name"`
	Content string `json:"message"`
	Time    string `json:"time"`
	Title   string `json:"title"`
	Created string `json:"created"`
}

// ChatRoom is one row of the rooms-for-user listing.
type ChatRoom struct {
	Title       string `json:"title"`
	Participant string `json:"participant"`
	Created     string `json:"create_date"`
	ChatID      int    `json:"id"`
}

type RoomInfo struct {
	Title string `json:"title"`
	Time  string `json:"time"`
}
