package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_SignAndParse(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	token, err := m.Sign(Identity{UserID: 7, Login: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 7, Login: "alice"}, id)
}

func TestSessionManager_Parse_WrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret1", time.Hour).Sign(Identity{UserID: 1, Login: "alice"})
	require.NoError(t, err)

	_, err = NewSessionManager("secret2", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_Parse_Expired(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Sign(Identity{UserID: 1, Login: "alice"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionManager_Parse_InvalidSigningMethod(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	claims := &sessionClaims{
		UserID: 1,
		Login:  "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_Parse_Garbage(t *testing.T) {
	_, err := NewSessionManager("secret", time.Hour).Parse("invalid.token.string")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_CookieRoundTrip(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, m.Issue(rec, req, Identity{UserID: 3, Login: "bob"}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/my_tours", nil)
	next.AddCookie(cookies[0])
	id, err := m.Identity(next)
	require.NoError(t, err)
	assert.Equal(t, "bob", id.Login)
	assert.Equal(t, int64(3), id.UserID)
}

func TestSessionManager_Identity_NoCookie(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	_, err := m.Identity(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionManager_Clear(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	rec := httptest.NewRecorder()
	m.Clear(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestIdentityContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFromContext(req.Context())
	assert.False(t, ok)

	ctx := WithIdentity(req.Context(), Identity{UserID: 1, Login: "alice"})
	id, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", id.Login)
}
