package jaegerservice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgEmailTaken         = "A user with this email address already exists."
)

type AuthService struct {
	gw     jaegerdb.Gateway
	tokens TokenIssuer
	cost   int
	rec    Recorder
	now    func() time.Time
	log    *zap.Logger

	// dummyHash is compared against when the email is unknown so both login
	// failures take the same time.
	dummyOnce sync.Once
	dummyHash []byte
}

func (s *AuthService) Register(ctx context.Context, in jaegermodel.RegisterInput) (AuthResponse, error) {
	u, err := s.createUser(ctx, in, jaegermodel.RoleUser)
	if err != nil {
		return AuthResponse{}, err
	}
	s.rec.UserRegistered()
	s.log.Info("User registered", zap.Int64("user_id", u.ID))
	return s.authResponse(u)
}

// CreateAdmin provisions an administrator account.
func (s *AuthService) CreateAdmin(ctx context.Context, in jaegermodel.RegisterInput) (UserResponse, error) {
	u, err := s.createUser(ctx, in, jaegermodel.RoleAdmin)
	if err != nil {
		return UserResponse{}, err
	}
	s.log.Info("Administrator created", zap.Int64("user_id", u.ID))
	return NewUserResponse(u), nil
}

func (s *AuthService) createUser(ctx context.Context, in jaegermodel.RegisterInput, role jaegermodel.Role) (jaegermodel.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := Validate(in); err != nil {
		return jaegermodel.User{}, err
	}

	taken, err := s.gw.Users().EmailExists(ctx, in.Email)
	if err != nil {
		return jaegermodel.User{}, err
	}
	if taken {
		return jaegermodel.User{}, jaegererr.Conflict(msgEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return jaegermodel.User{}, jaegererr.Invalid("password must be at most 72 bytes long")
	} else if err != nil {
		return jaegermodel.User{}, jaegererr.Internal("jaegerservice.Register", err)
	}

	now := s.now()
	u, err := s.gw.Users().Add(ctx, jaegermodel.User{
		Email:        jaegermodel.NormalizeEmail(in.Email),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	// The unique index catches a registration racing past EmailExists.
	if jaegererr.Is(err, jaegererr.EConflict) {
		return jaegermodel.User{}, jaegererr.Conflict(msgEmailTaken)
	}
	return u, err
}

// Login answers the same way for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, in jaegermodel.LoginInput) (AuthResponse, error) {
	if err := Validate(in); err != nil {
		return AuthResponse{}, err
	}

	u, err := s.gw.Users().GetByEmail(ctx, in.Email)
	if jaegererr.Is(err, jaegererr.ENotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(in.Password))
		s.rec.LoginAttempt(false)
		return AuthResponse{}, jaegererr.Unauthorized(msgInvalidCredentials)
	} else if err != nil {
		return AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		s.rec.LoginAttempt(false)
		return AuthResponse{}, jaegererr.Unauthorized(msgInvalidCredentials)
	}
	s.rec.LoginAttempt(true)
	return s.authResponse(u)
}

// Me returns the caller. A token whose user has since disappeared is no
// longer a valid identity.
func (s *AuthService) Me(ctx context.Context, userID int64) (UserResponse, error) {
	u, err := s.gw.Users().Get(ctx, userID)
	if jaegererr.Is(err, jaegererr.ENotFound) {
		return UserResponse{}, jaegererr.Unauthorized("User no longer exists.")
	} else if err != nil {
		return UserResponse{}, err
	}
	return NewUserResponse(u), nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.gw.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out, nil
}

func (s *AuthService) authResponse(u jaegermodel.User) (AuthResponse, error) {
	token, expires, err := s.tokens.GenerateJWT(u)
	if err != nil {
		return AuthResponse{}, jaegererr.Internal("jaegerservice.IssueToken", err)
	}
	return AuthResponse{Token: token, ExpiresAt: expires, User: NewUserResponse(u)}, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
