package models

import (
	"database/sql"
	"time"
)

// User is a row of the users table.
type User struct {
	ID           string         `db:"ID"`            // ULID
	Email        string         `db:"EMAIL"`         // Unique sign-in address
	PasswordHash sql.NullString `db:"PASSWORD_HASH"` // bcrypt hash; NULL for Google-only accounts
	GoogleID     sql.NullString `db:"GOOGLE_ID"`     // Google's subject id when linked
	Name         sql.NullString `db:"NAME"`
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
}
