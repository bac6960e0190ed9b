// Package store keeps imported question banks in a local SQLite catalog.
// Only raw rows are stored; they go through the bank loader on every run.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pavelanni/quizrunner/internal/model"

	_ "modernc.org/sqlite"
)

var (
	// ErrBankNotFound is returned when no bank has the requested name.
	ErrBankNotFound = errors.New("bank not found")
	// ErrBankExists is returned when importing under a name already in use.
	ErrBankExists = errors.New("bank already exists")
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS banks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL DEFAULT '',
		sha256 TEXT NOT NULL DEFAULT '',
		row_count INTEGER NOT NULL DEFAULT 0,
		imported_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bank_cells (
		bank_id INTEGER NOT NULL,
		row_idx INTEGER NOT NULL,
		col_idx INTEGER NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (bank_id, row_idx, col_idx),
		FOREIGN KEY (bank_id) REFERENCES banks(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS catalog_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ImportBank stores the raw rows of a bank under info.Name.
func (s *Store) ImportBank(info model.BankInfo, rows [][]string) (int64, error) {
	existing, err := s.GetBank(info.Name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, fmt.Errorf("%w: %q", ErrBankExists, info.Name)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO banks (name, source, sha256, row_count, imported_at) VALUES (?, ?, ?, ?, ?)`,
		info.Name, info.Source, info.Hash, len(rows), time.Now(),
	)
	if err != nil {
		return 0, err
	}
	bankID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO bank_cells (bank_id, row_idx, col_idx, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for r, row := range rows {
		for c, text := range row {
			if _, err := stmt.Exec(bankID, r, c, text); err != nil {
				return 0, fmt.Errorf("insert row %d: %w", r+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	slog.Info("imported bank", "name", info.Name, "source", info.Source, "rows", len(rows))
	return bankID, nil
}

// GetBank returns the catalog entry for name, or nil if there is none.
func (s *Store) GetBank(name string) (*model.BankInfo, error) {
	var b model.BankInfo
	err := s.db.QueryRow(
		`SELECT id, name, source, sha256, row_count, imported_at FROM banks WHERE name = ?`, name,
	).Scan(&b.ID, &b.Name, &b.Source, &b.Hash, &b.Rows, &b.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBanks returns all catalog entries ordered by name.
func (s *Store) ListBanks() ([]model.BankInfo, error) {
	rows, err := s.db.Query(`SELECT id, name, source, sha256, row_count, imported_at FROM banks ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var banks []model.BankInfo
	for rows.Next() {
		var b model.BankInfo
		if err := rows.Scan(&b.ID, &b.Name, &b.Source, &b.Hash, &b.Rows, &b.ImportedAt); err != nil {
			return nil, err
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}

// BankRows returns the raw rows of a bank, header included. Empty rows and
// trailing empty cells that were imported are preserved.
func (s *Store) BankRows(name string) ([][]string, error) {
	info, err := s.GetBank(name)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %q", ErrBankNotFound, name)
	}

	rows, err := s.db.Query(
		`SELECT row_idx, col_idx, text FROM bank_cells WHERE bank_id = ? ORDER BY row_idx, col_idx`, info.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([][]string, info.Rows)
	for rows.Next() {
		var r, c int
		var text string
		if err := rows.Scan(&r, &c, &text); err != nil {
			return nil, err
		}
		if r < 0 || r >= len(out) {
			return nil, fmt.Errorf("bank %q: cell row %d outside %d rows", name, r, len(out))
		}
		for len(out[r]) < c {
			out[r] = append(out[r], "")
		}
		out[r] = append(out[r], text)
	}
	return out, rows.Err()
}

// DeleteBank removes a bank and its rows.
func (s *Store) DeleteBank(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`SELECT id FROM banks WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %q", ErrBankNotFound, name)
	}
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM bank_cells WHERE bank_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM banks WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// BankCount returns the number of banks in the catalog.
func (s *Store) BankCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM banks`).Scan(&count)
	return count, err
}
