package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/woomsg/woomsg/internal/models"
	"github.com/woomsg/woomsg/internal/store"
)

// InsertChat creates a chat, deduplicated by title: if a chat with the same
// title exists it is returned unchanged, so repeated bulk-import rows for
// one room share a single chat.
func (s *SQLStore) InsertChat(title, time string) (*models.Chat, error) {
	return s.insertChat(s.db, title, time)
}

func (s *SQLStore) insertChat(q execQueryer, title, time string) (*models.Chat, error) {
	var chat models.Chat
	query := s.rebind(`SELECT id, title, time FROM chat WHERE title = ?`)
	err := q.QueryRow(query, title).Scan(&chat.ID, &chat.Title, &chat.Time)
	if err == nil {
		return &chat, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, mapError(err)
	}

	query = s.rebind(`INSERT INTO chat (title, time) VALUES (?, ?) RETURNING id`)
	if err := q.QueryRow(query, title, time).Scan(&chat.ID); err != nil {
		return nil, mapError(err)
	}
	chat.Title = title
	chat.Time = time
	return &chat, nil
}

// InsertChatRel adds a user to a chat. The (user, chat) pair is looked up
// first; an existing link is returned instead of inserting a duplicate.
func (s *SQLStore) InsertChatRel(userID, chatID int) (*models.ChatParticipant, error) {
	return s.insertChatRel(s.db, userID, chatID)
}

func (s *SQLStore) insertChatRel(q execQueryer, userID, chatID int) (*models.ChatParticipant, error) {
	rel := models.ChatParticipant{UserID: userID, ChatID: chatID}
	query := s.rebind(`SELECT id FROM chat_rel WHERE user_id = ? AND chat_id = ?`)
	err := q.QueryRow(query, userID, chatID).Scan(&rel.ID)
	if err == nil {
		return &rel, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, mapError(err)
	}

	query = s.rebind(`INSERT INTO chat_rel (user_id, chat_id) VALUES (?, ?) RETURNING id`)
	if err := q.QueryRow(query, userID, chatID).Scan(&rel.ID); err != nil {
		return nil, mapError(err)
	}
	return &rel, nil
}

// CreateChatRoom creates a chat and links every given user to it inside a
// single transaction, so a failure part-way leaves no half-built room.
func (s *SQLStore) CreateChatRoom(title, time string, userIDs []int) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}

	chat, err := s.insertChat(tx, title, time)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	for _, userID := range userIDs {
		if _, err := s.insertChatRel(tx, userID, chat.ID); err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return chat.ID, nil
}

func (s *SQLStore) UpdateChatTitle(chatID int, title string) (*models.Chat, error) {
	query := s.rebind(`UPDATE chat SET title = ? WHERE id = ?`)
	result, err := s.db.Exec(query, title, chatID)
	if err != nil {
		return nil, mapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("chat %d: %w", chatID, store.ErrNotFound)
	}

	var chat models.Chat
	query = s.rebind(`SELECT id, title, time FROM chat WHERE id = ?`)
	if err := s.db.QueryRow(query, chatID).Scan(&chat.ID, &chat.Title, &chat.Time); err != nil {
		return nil, mapError(err)
	}
	return &chat, nil
}

// RemoveUserFromChat deletes the membership link for (username, chatID).
// The chat itself is kept even when its last participant leaves.
func (s *SQLStore) RemoveUserFromChat(username string, chatID int) error {
	userID, err := s.GetUserID(username)
	if err != nil {
		return err
	}

	query := s.rebind(`DELETE FROM chat_rel WHERE user_id = ? AND chat_id = ?`)
	_, err = s.db.Exec(query, userID, chatID)
	return mapError(err)
}

// ChatRoomsForUser lists the rooms a user participates in, ordered by
// creation time then title.
func (s *SQLStore) ChatRoomsForUser(userID int) ([]models.ChatRoom, error) {
	query := s.rebind(`
		SELECT c.title, u.name, c.time, c.id
		FROM chat c
		JOIN chat_rel r ON r.chat_id = c.id
		JOIN "user" u ON u.id = r.user_id
		WHERE r.user_id = ?
		ORDER BY c.time, c.title
	`)
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []models.ChatRoom
	for rows.Next() {
		var r models.ChatRoom
		if err := rows.Scan(&r.Title, &r.Participant, &r.Created, &r.ChatID); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// ParticipantsInChat lists the display names of a chat's members,
// alphabetically.
func (s *SQLStore) ParticipantsInChat(chatID int) ([]string, error) {
	query := s.rebind(`
		SELECT u.name
		FROM "user" u
		JOIN chat_rel r ON r.user_id = u.id
		WHERE r.chat_id = ?
		ORDER BY u.name
	`)
	rows, err := s.db.Query(query, chatID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLStore) RoomInfo(chatID int) (*models.RoomInfo, error) {
	var info models.RoomInfo
	query := s.rebind(`SELECT title, time FROM chat WHERE id = ?`)
	err := s.db.QueryRow(query, chatID).Scan(&info.Title, &info.Time)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chat %d: %w", chatID, store.ErrNotFound)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &info, nil
}
