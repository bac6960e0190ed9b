package store

import (
	"database/sql"
)

const defaultBankKey = "default_bank"

// SetMetadata upserts a key-value pair in the catalog_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO catalog_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM catalog_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetDefaultBank records the bank used when none is named.
func (s *Store) SetDefaultBank(name string) error {
	return s.SetMetadata(defaultBankKey, name)
}

// DefaultBank returns the default bank name, or "" if unset.
func (s *Store) DefaultBank() (string, error) {
	return s.GetMetadata(defaultBankKey)
}

// ImportedHash returns the hash recorded for the latest import of source,
// or "" if the source was never imported.
func (s *Store) ImportedHash(source string) (string, error) {
	var hash string
	err := s.db.QueryRow(
		`SELECT sha256 FROM banks WHERE source = ? ORDER BY imported_at DESC LIMIT 1`, source,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}
