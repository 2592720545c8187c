package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a domain entity representing a registered account holder.
// ID is assigned by the credential store on insert.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser is the insert payload for UserRepository.Create.
type NewUser struct {
	Email        string
	Username     string
	PasswordHash string
}
