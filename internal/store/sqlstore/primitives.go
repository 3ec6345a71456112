package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/woomsg/woomsg/internal/store"
)

// Query text for the generic primitives is statically known per table.
// The store.Table enum is the only way to select one, so no identifier is
// ever interpolated from input.
var (
	selectByIDQueries = map[store.Table]string{
		store.TableUser:    `SELECT * FROM "user" WHERE id = ?`,
		store.TableChat:    `SELECT * FROM chat WHERE id = ?`,
		store.TableChatRel: `SELECT * FROM chat_rel WHERE id = ?`,
		store.TableMessage: `SELECT * FROM message WHERE id = ?`,
	}
	selectAllQueries = map[store.Table]string{
		store.TableUser:    `SELECT * FROM "user"`,
		store.TableChat:    `SELECT * FROM chat`,
		store.TableChatRel: `SELECT * FROM chat_rel`,
		store.TableMessage: `SELECT * FROM message`,
	}
	deleteByIDQueries = map[store.Table]string{
		store.TableUser:    `DELETE FROM "user" WHERE id = ?`,
		store.TableChat:    `DELETE FROM chat WHERE id = ?`,
		store.TableChatRel: `DELETE FROM chat_rel WHERE id = ?`,
		store.TableMessage: `DELETE FROM message WHERE id = ?`,
	}
)

// GetByID returns the row with the given id, or ok=false when there is no
// such row. Absence is not an error.
func (s *SQLStore) GetByID(table store.Table, id int) (store.Record, bool, error) {
	query, ok := selectByIDQueries[table]
	if !ok {
		return nil, false, fmt.Errorf("unknown table %v", table)
	}

	rows, err := s.db.Query(s.rebind(query), id)
	if err != nil {
		return nil, false, mapError(err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

// GetAll returns every row of the table in storage order.
func (s *SQLStore) GetAll(table store.Table) ([]store.Record, error) {
	query, ok := selectAllQueries[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %v", table)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// DeleteByID deletes the row with the given id. Deleting an absent row is a
// no-op, not an error. The caller owns the foreign-key consequences; the
// engine does not cascade.
func (s *SQLStore) DeleteByID(table store.Table, id int) error {
	query, ok := deleteByIDQueries[table]
	if !ok {
		return fmt.Errorf("unknown table %v", table)
	}

	_, err := s.db.Exec(s.rebind(query), id)
	return mapError(err)
}

func scanRecords(rows *sql.Rows) ([]store.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []store.Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record := make(store.Record, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
