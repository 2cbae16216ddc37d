package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes
const BcryptCost = 12

// User is a dashboard account
type User struct {
	shared.BaseEntity
	Name         string
	Email        string
	PasswordHash string
}

// NewUser creates a user, hashing the plain password
func NewUser(id uuid.UUID, name, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(password) < 6 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   shared.BaseEntity{ID: id},
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
	}, nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserRepository looks up dashboard accounts
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}
