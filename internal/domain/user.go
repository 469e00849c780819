package domain

import (
	"time"
)

// User represents a registered account holder.
// HashedPassword is the only credential ever persisted; the plaintext
// password exists transiently in service-layer parameters and is never
// stored on the entity.
type User struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"` // Never expose password hash in JSON
	IsActive       bool       `json:"is_active"`
	IsVerified     bool       `json:"is_verified"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUser creates a new User with the given names, email, and an already
// hashed password. The ID and timestamps are server-generated at insert
// time, so they are left zero here. New accounts start active and
// unverified.
//
// NOTE: The caller is responsible for hashing the password before calling
// this function; NewUser rejects an empty hash but never sees plaintext.
func NewUser(firstName, lastName, email, hashedPassword string) (*User, error) {
	user := &User{
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsVerified:     false,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.FirstName == "" {
		return ErrEmptyFirstName
	}

	if u.LastName == "" {
		return ErrEmptyLastName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
//
// This is deliberately minimal; the API layer applies the stricter
// validator.v10 "email" rule before requests reach the domain.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
