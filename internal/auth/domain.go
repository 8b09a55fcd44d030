package auth

import (
	"time"

	"github.com/pulse-hr/pulse/internal/identity"
)

// Account is a credentialed identity in the local directory. HR staff carry
// an administrative role; employee accounts exist only to answer surveys.
type Account struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"password_hash"`
	OrgID        string        `json:"org_id"`
	Role         identity.Role `json:"role"`
	Kind         identity.Kind `json:"kind"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
}
