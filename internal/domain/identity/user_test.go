package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(uuid.New(), "User", " User@Nextmail.com ", "123456")
	require.NoError(t, err)

	assert.Equal(t, "user@nextmail.com", u.Email)
	assert.NotEqual(t, "123456", u.PasswordHash)
	assert.True(t, u.VerifyPassword("123456"))
	assert.False(t, u.VerifyPassword("654321"))
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser(uuid.New(), "User", "", "123456")
	assert.Error(t, err)

	_, err = NewUser(uuid.New(), "User", "user@nextmail.com", "123")
	assert.Error(t, err)
}

func TestUser_VerifyPasswordWithoutHash(t *testing.T) {
	u := &User{Email: "x@example.com"}
	assert.False(t, u.VerifyPassword(""))
}
