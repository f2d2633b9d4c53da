package jaegerserver

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegerjwt"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

type identityKey struct{}

// identity is the authenticated caller, taken from the token claims.
type identity struct {
	UserID int64
	Role   jaegermodel.Role
}

func withIdentity(ctx context.Context, id identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func identityFrom(ctx context.Context) (identity, bool) {
	id, ok := ctx.Value(identityKey{}).(identity)
	return id, ok
}

// currentUserID is only meaningful behind authenticate.
func currentUserID(r *http.Request) int64 {
	id, _ := identityFrom(r.Context())
	return id.UserID
}

// bearerToken takes the Authorization header first, then the auth cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(jaegerjwt.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, jaegererr.Unauthorized("Authentication is required."))
			return
		}
		claims, err := s.tokens.ValidateToken(token)
		if err != nil {
			s.log.Debug("Rejected token", zap.Error(err))
			s.writeError(w, r, jaegererr.Unauthorized("Invalid or expired token."))
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			s.writeError(w, r, jaegererr.Unauthorized("Invalid or expired token."))
			return
		}
		ctx := withIdentity(r.Context(), identity{UserID: userID, Role: claims.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole lets only callers holding role through.
func (s *Server) requireRole(role jaegermodel.Role, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identityFrom(r.Context())
		if !ok {
			s.writeError(w, r, jaegererr.Unauthorized("Authentication is required."))
			return
		}
		if id.Role != role {
			s.writeError(w, r, jaegererr.Forbidden("You do not have permission to perform this action."))
			return
		}
		next(w, r)
	})
}

// cors answers preflights itself. Listed origins are reflected with
// credentials allowed; a "*" entry admits every other origin without
// credentials, so the auth cookie is never readable cross-site.
func (s *Server) cors(next http.Handler) http.Handler {
	anyOrigin := slices.Contains(s.opts.AllowedOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			listed := slices.Contains(s.opts.AllowedOrigins, origin)
			if !listed && !anyOrigin {
				s.writeError(w, r, jaegererr.Forbidden("Origin is not allowed."))
				return
			}
			h := w.Header()
			if listed {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
			} else {
				h.Set("Access-Control-Allow-Origin", "*")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.log.Error("Handler panicked",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", v),
					zap.ByteString("stack", debug.Stack()))
				s.writeError(w, r, jaegererr.Internal("recover", fmt.Errorf("panic: %v", v)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
