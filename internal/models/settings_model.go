package models

import "time"

type Setting struct {
	ID          int64     `db:"id" json:"id"`
	Key         string    `db:"key" json:"key"`
	Value       string    `db:"value" json:"value"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	IsSensitive bool      `db:"is_sensitive" json:"is_sensitive"`
	UpdatedBy   int64     `db:"updated_by" json:"updated_by"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
