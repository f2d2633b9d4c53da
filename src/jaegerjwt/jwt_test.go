package jaegerjwt

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestIssuer(t *testing.T, audience string) *Issuer {
	t.Helper()
	i, err := NewIssuer(Config{Key: testKey, Issuer: "jaeger", Audience: audience, Expiry: time.Hour})
	require.NoError(t, err)
	return i
}

var testUser = jaegermodel.User{ID: 42, Email: "ana@example.com", FirstName: "Ana", LastName: "Lee", Role: jaegermodel.RoleAdmin}

func TestRoundTrip(t *testing.T) {
	i := newTestIssuer(t, "jaeger-clients")
	token, expires, err := i.GenerateJWT(testUser)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := i.ValidateToken(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.GivenName)
	assert.Equal(t, "Lee", claims.FamilyName)
	assert.Equal(t, jaegermodel.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestRejectsShortKey(t *testing.T) {
	_, err := NewIssuer(Config{Key: []byte("short"), Expiry: time.Hour})
	require.Error(t, err)
}

func TestRejectsWrongAudience(t *testing.T) {
	token, _, err := newTestIssuer(t, "someone-else").GenerateJWT(testUser)
	require.NoError(t, err)

	_, err = newTestIssuer(t, "jaeger-clients").ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsExpired(t *testing.T) {
	i := newTestIssuer(t, "jaeger-clients")
	i.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := i.GenerateJWT(testUser)
	require.NoError(t, err)

	i.now = time.Now
	_, err = i.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsTamperedAndUnsigned(t *testing.T) {
	i := newTestIssuer(t, "jaeger-clients")
	token, _, err := i.GenerateJWT(testUser)
	require.NoError(t, err)

	_, err = i.ValidateToken(token + "x")
	require.ErrorIs(t, err, ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "42"})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = i.ValidateToken(none)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = i.ValidateToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetTokenInCookies(rec, "abc", time.Now().Add(time.Hour))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	DeleteCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}
