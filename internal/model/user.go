package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash []byte) error
	// SetAdmin raises the privilege flag. There is no operation that lowers it.
	SetAdmin(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context) ([]User, error)
}

// PasswordHasher produces and checks irreversible password digests.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) bool
}

// User represents a stored user with authentication material.
type User struct {
	ID           uuid.UUID
	Fullname     string
	Email        string
	PasswordHash []byte
	IsAdmin      bool
	Address      Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Address is optional postal data attached to a profile.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Zip     string `json:"zip,omitempty" bson:"zip,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// ProfileUpdate lists profile fields to change. Nil fields are left untouched.
type ProfileUpdate struct {
	Fullname *string
	Email    *string
	Address  *Address
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Fullname == nil && u.Email == nil && u.Address == nil
}

// Sanitized returns a copy of the user without the password digest.
func (u User) Sanitized() User {
	u.PasswordHash = nil
	return u
}

// RequireAdmin checks the privilege flag of an authenticated user.
func RequireAdmin(u User) error {
	if !u.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// RegisterParams holds the fields of a registration request.
type RegisterParams struct {
	Fullname string
	Email    string
	Password string
}
