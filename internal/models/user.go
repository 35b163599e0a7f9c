package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	ID           uuid.UUID `db:"id"`            // Primary key
	Username     string    `db:"username"`      // Unique username
	Name         string    `db:"name"`          // Display name
	Email        string    `db:"email"`         // Unique email
	PasswordHash string    `db:"password_hash"` // Hashed password, never rendered
	CreatedAt    time.Time `db:"created_at"`    // Creation timestamp
}

// UserListItem is the projection rendered on the user list page.
// The password hash is deliberately not part of it.
type UserListItem struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}
