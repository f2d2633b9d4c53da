package jaegerjwt

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

const CookieName = "authToken"

// MinKeyLength is the shortest HS256 signing key we accept.
const MinKeyLength = 32

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the user identity; the subject is the user id.
type Claims struct {
	Email      string           `json:"email"`
	GivenName  string           `json:"given_name"`
	FamilyName string           `json:"family_name"`
	Role       jaegermodel.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return id, nil
}

type Config struct {
	Key      []byte
	Issuer   string
	Audience string
	Expiry   time.Duration
}

// Issuer signs and checks HS256 tokens for one issuer/audience pair.
type Issuer struct {
	cfg Config
	now func() time.Time
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Key) < MinKeyLength {
		return nil, fmt.Errorf("JWT key must be at least %d bytes, got %d", MinKeyLength, len(cfg.Key))
	}
	if cfg.Expiry <= 0 {
		return nil, fmt.Errorf("JWT expiry must be positive")
	}
	return &Issuer{cfg: cfg, now: time.Now}, nil
}

// GenerateJWT returns a signed token for u and the moment it expires.
func (i *Issuer) GenerateJWT(u jaegermodel.User) (string, time.Time, error) {
	now := i.now().UTC()
	expires := now.Add(i.cfg.Expiry)
	claims := Claims{
		Email:      u.Email,
		GivenName:  u.FirstName,
		FamilyName: u.LastName,
		Role:       u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			ID:        uuid.NewString(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.cfg.Key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// ValidateToken checks signature, algorithm, issuer, audience and lifetime.
// Every failure wraps ErrInvalidToken.
func (i *Issuer) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// SetTokenInCookies stores the token for browser clients, expiring with it.
func SetTokenInCookies(w http.ResponseWriter, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		Expires:  expires,
	}
	http.SetCookie(w, cookie)
}

func DeleteCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
	}
	http.SetCookie(w, cookie)
}
