package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput is a credentials submission
type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// LoginResult is returned after a successful login
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo is the public view of the signed-in user
type UserInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// SessionInfo describes a validated session
type SessionInfo struct {
	User      UserInfo
	TokenID   string
	ExpiresAt time.Time
}
