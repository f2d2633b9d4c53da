package jaegerserver

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
)

const readinessTimeout = 2 * time.Second

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, healthResponse{
		Status:    "Healthy",
		Timestamp: s.now().UTC(),
		Version:   s.opts.Version,
	})
}

// handleReadiness also checks that storage answers.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := s.gw.Ping(ctx); err != nil {
		s.log.Warn("Storage is unreachable", zap.Error(err))
		s.respond(w, r, http.StatusServiceUnavailable, healthResponse{
			Status:    "Unhealthy",
			Timestamp: s.now().UTC(),
			Version:   s.opts.Version,
		})
		return
	}
	s.handleHealth(w, r)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, jaegererr.NotFound("No route matches %s %s.", r.Method, r.URL.Path))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, &jaegererr.Error{
		Code: jaegererr.EMethodNotAllowed,
		Msg:  "Method " + r.Method + " is not allowed on " + r.URL.Path + ".",
	})
}
