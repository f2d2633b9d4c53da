package jaegerserver

import (
	"net/http"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerjwt"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in jaegermodel.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.svc.Auth.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jaegerjwt.SetTokenInCookies(w, resp.Token, resp.ExpiresAt)
	s.respond(w, r, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in jaegermodel.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.svc.Auth.Login(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jaegerjwt.SetTokenInCookies(w, resp.Token, resp.ExpiresAt)
	s.respond(w, r, http.StatusOK, resp)
}

// Tokens are stateless; logging out only drops the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	jaegerjwt.DeleteCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Auth.Me(r.Context(), currentUserID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Auth.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, users)
}
