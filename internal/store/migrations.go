package store

import "fmt"

// migrate creates all tables if they don't exist. Bootstrap is guarded by
// a meta flag so re-opens skip the DDL entirely.
func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating meta table: %w", err)
	}

	done, err := s.isMetaFlagEnabled("schema_bootstrap_complete")
	if err != nil {
		return fmt.Errorf("checking bootstrap state: %w", err)
	}
	if done {
		return nil
	}

	if err := s.runBootstrapDDL(); err != nil {
		return err
	}
	if err := s.setMetaFlag("schema_bootstrap_complete"); err != nil {
		return fmt.Errorf("marking bootstrap complete: %w", err)
	}
	return nil
}

func (s *SQLiteStore) runBootstrapDDL() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			parsed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id INTEGER NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			kind TEXT NOT NULL,
			value TEXT NOT NULL,
			formatted TEXT NOT NULL,
			position INTEGER NOT NULL,
			end_position INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(type)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_message ON entities(message_id)`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning bootstrap transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range ddl {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("bootstrap DDL: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) isMetaFlagEnabled(key string) (bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return false, nil // absent row or fresh db both mean "not set"
	}
	return value == "1", nil
}

func (s *SQLiteStore) setMetaFlag(key string) error {
	_, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES (?, '1')
		 ON CONFLICT(key) DO UPDATE SET value = '1'`, key)
	return err
}
