package model

import "time"

// BankInfo describes a question bank imported into the catalog.
type BankInfo struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	Hash       string    `json:"sha256"`
	Rows       int       `json:"rows"` // including the header row
	ImportedAt time.Time `json:"imported_at"`
}
