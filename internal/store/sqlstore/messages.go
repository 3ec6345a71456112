package sqlstore

import (
	"fmt"

	"github.com/woomsg/woomsg/internal/models"
	"github.com/woomsg/woomsg/internal/store"
)

// InsertMessage posts a message. Not idempotent: every call inserts a row.
// A stale or forged user or chat id surfaces as store.ErrForeignKey and
// nothing is inserted.
func (s *SQLStore) InsertMessage(content, time string, userID, chatID int) (*models.Message, error) {
	var id int
	query := s.rebind(`INSERT INTO message (message, time, user_id, chat_id) VALUES (?, ?, ?, ?) RETURNING id`)
	if err := s.db.QueryRow(query, content, time, userID, chatID).Scan(&id); err != nil {
		return nil, mapError(err)
	}
	return &models.Message{ID: id, Content: content, Time: time, UserID: userID, ChatID: chatID}, nil
}

// UpdateMessage rewrites a message's content and receiving user. The
// timestamp is immutable.
func (s *SQLStore) UpdateMessage(content string, userID, messageID int) (*models.Message, error) {
	query := s.rebind(`UPDATE message SET message = ?, user_id = ? WHERE id = ?`)
	result, err := s.db.Exec(query, content, userID, messageID)
	if err != nil {
		return nil, mapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("message %d: %w", messageID, store.ErrNotFound)
	}

	var m models.Message
	query = s.rebind(`SELECT id, message, time, user_id, chat_id FROM message WHERE id = ?`)
	if err := s.db.QueryRow(query, messageID).Scan(&m.ID, &m.Content, &m.Time, &m.UserID, &m.ChatID); err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

// MessagesInRoom returns every message in a chat ordered by time ascending,
// each enriched with the sender name and the room's title and creation time.
func (s *SQLStore) MessagesInRoom(chatID int) ([]models.ChatMessage, error) {
	query := s.rebind(`
		SELECT u.name, m.message, m.time, c.title, c.time
		FROM message m
		JOIN "user" u ON u.id = m.user_id
		JOIN chat c ON c.id = m.chat_id
		WHERE m.chat_id = ?
		ORDER BY m.time ASC
	`)
	rows, err := s.db.Query(query, chatID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.Name, &m.Content, &m.Time, &m.Title, &m.Created); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
