package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "pw123"
	hashed, err := HashPassword(password)

	require.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotEqual(t, password, hashed)

	again, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "hashes must be salted")
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hashed, "pw123"))
	assert.False(t, CheckPassword(hashed, "wrong"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "pw123"))
}

func TestHashPassword_LongPassword(t *testing.T) {
	long := strings.Repeat("p", 73)
	hashed, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hashed, long))
	assert.False(t, CheckPassword(hashed, strings.Repeat("p", 72)))
	assert.False(t, CheckPassword(hashed, long+"q"), "bytes past 72 still count")
}
