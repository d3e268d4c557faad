//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"time"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
)

// Account is a directory row for a local school account. PasswordHash is a
// bcrypt hash and never leaves the data layer.
type Account struct {
	ID           string          `json:"id"               db:"id"`
	Email        string          `json:"email"            db:"email"`
	Name         string          `json:"name"             db:"name"`
	Role         domainauth.Role `json:"role"             db:"role"`
	School       *string         `json:"school,omitempty" db:"school"`
	Grade        *string         `json:"grade,omitempty"  db:"grade"`
	PasswordHash []byte          `json:"-"                db:"password_hash"`
	CreatedAt    time.Time       `json:"created_at"       db:"created_at"`
}

// Identity converts the directory row into the domain Identity shape.
func (a Account) Identity() domainauth.Identity {
	id := domainauth.Identity{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Role,
	}
	if a.School != nil {
		id.School = *a.School
	}
	if a.Grade != nil {
		id.Grade = *a.Grade
	}
	return id
}

// CreateAccountRequest represents parameters to insert a directory row.
type CreateAccountRequest struct {
	Email        string
	Name         string
	Role         domainauth.Role
	School       *string
	Grade        *string
	PasswordHash []byte
}
