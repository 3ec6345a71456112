package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/woomsg/woomsg/internal/store"
)

// SQLStore implements store.Store over database/sql with either the sqlite3
// or the postgres driver.
type SQLStore struct {
	db         *sql.DB
	driverName string
}

// schema is written in the sqlite dialect; New adjusts it for postgres.
// The table name "user" is quoted because it is reserved in postgres.
const schema = `
	CREATE TABLE IF NOT EXISTS "user" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chat (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		time TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chat_rel (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		chat_id INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES "user"(id),
		FOREIGN KEY (chat_id) REFERENCES chat(id)
	);

	CREATE TABLE IF NOT EXISTS message (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		message TEXT NOT NULL,
		time TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		chat_id INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES "user"(id),
		FOREIGN KEY (chat_id) REFERENCES chat(id)
	);
`

func New(driverName, dataSourceName string) (*SQLStore, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if driverName == "sqlite3" {
		// A single connection keeps the foreign-key pragma in effect for
		// every statement and makes :memory: databases usable under the
		// connection pool.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLStore{db: db, driverName: driverName}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// ensureSchema creates any missing tables. Non-destructive; runs on every
// open.
func (s *SQLStore) ensureSchema() error {
	_, err := s.db.Exec(s.dialect(schema))
	return err
}

// InitSchema drops and recreates all four tables, discarding existing data.
func (s *SQLStore) InitSchema() error {
	drop := `
		DROP TABLE IF EXISTS message;
		DROP TABLE IF EXISTS chat_rel;
		DROP TABLE IF EXISTS chat;
		DROP TABLE IF EXISTS "user";
	`
	if _, err := s.db.Exec(drop); err != nil {
		return err
	}
	return s.ensureSchema()
}

func (s *SQLStore) dialect(query string) string {
	if s.driverName == "postgres" {
		query = strings.ReplaceAll(query, "INTEGER PRIMARY KEY AUTOINCREMENT", "SERIAL PRIMARY KEY")
	}
	return query
}

// rebind translates ? placeholders to $1, $2, ... for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driverName == "postgres" {
		n := strings.Count(query, "?")
		for i := 1; i <= n; i++ {
			query = strings.Replace(query, "?", fmt.Sprintf("$%d", i), 1)
		}
	}
	return query
}

// insertIgnore translates sqlite INSERT OR IGNORE to the postgres
// ON CONFLICT form.
func (s *SQLStore) insertIgnore(query string) string {
	if s.driverName == "postgres" {
		query = strings.Replace(query, "INSERT OR IGNORE", "INSERT", 1)
		query += " ON CONFLICT DO NOTHING"
	}
	return query
}

// execQueryer is satisfied by both *sql.DB and *sql.Tx so that insert
// helpers can run inside or outside a transaction.
type execQueryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// mapError translates driver constraint errors into the store taxonomy.
// Everything else is passed through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", store.ErrForeignKey, err)
		}
		return err
	}

	var pe *pq.Error
	if errors.As(err, &pe) {
		switch pe.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %v", store.ErrForeignKey, err)
		}
	}
	return err
}
