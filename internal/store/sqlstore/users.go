package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/woomsg/woomsg/internal/models"
	"github.com/woomsg/woomsg/internal/store"
)

// InsertUser inserts a user, ignoring the insert when the username or email
// is already taken, and returns the row that is in the table afterwards —
// the new one or the pre-existing one.
func (s *SQLStore) InsertUser(name, email, username, passwordHash string) (*models.User, error) {
	query := s.rebind(s.insertIgnore(
		`INSERT OR IGNORE INTO "user" (name, email, username, password) VALUES (?, ?, ?, ?)`))
	if _, err := s.db.Exec(query, name, email, username, passwordHash); err != nil {
		return nil, mapError(err)
	}

	user, err := s.GetUserByUsername(username)
	if errors.Is(err, store.ErrNotFound) {
		// The insert was ignored because of an email conflict under a new
		// username; the existing row is keyed by email.
		return s.getUserByEmail(email)
	}
	return user, err
}

func (s *SQLStore) GetUserByUsername(username string) (*models.User, error) {
	query := s.rebind(`SELECT id, name, email, username, password FROM "user" WHERE username = ?`)
	return s.scanUser(s.db.QueryRow(query, username))
}

func (s *SQLStore) GetUserByID(id int) (*models.User, error) {
	query := s.rebind(`SELECT id, name, email, username, password FROM "user" WHERE id = ?`)
	return s.scanUser(s.db.QueryRow(query, id))
}

func (s *SQLStore) getUserByEmail(email string) (*models.User, error) {
	query := s.rebind(`SELECT id, name, email, username, password FROM "user" WHERE email = ?`)
	return s.scanUser(s.db.QueryRow(query, email))
}

// GetUserID resolves a username to its id. The id feeds foreign keys
// downstream, so absence is a hard ErrNotFound.
func (s *SQLStore) GetUserID(username string) (int, error) {
	var id int
	query := s.rebind(`SELECT id FROM "user" WHERE username = ?`)
	err := s.db.QueryRow(query, username).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("user %q: %w", username, store.ErrNotFound)
	}
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// UpdateUserName changes a user's display name. Username and email are
// immutable after registration.
func (s *SQLStore) UpdateUserName(userID int, name string) (*models.User, error) {
	query := s.rebind(`UPDATE "user" SET name = ? WHERE id = ?`)
	result, err := s.db.Exec(query, name, userID)
	if err != nil {
		return nil, mapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("user %d: %w", userID, store.ErrNotFound)
	}
	return s.GetUserByID(userID)
}

func (s *SQLStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}
