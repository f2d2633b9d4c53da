// Package jaegerserver exposes the tracker over HTTP: routing, authentication,
// role checks, CORS, rate limiting, metrics and the JSON error envelope.
package jaegerserver

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegerjwt"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
	"github.com/MGavranovic/jaeger-tracker/src/jaegerservice"
)

// TokenValidator checks bearer tokens presented by clients.
type TokenValidator interface {
	ValidateToken(token string) (*jaegerjwt.Claims, error)
}

type Options struct {
	// AllowedOrigins lists CORS origins allowed with credentials; "*" admits
	// any other origin without credentials.
	AllowedOrigins []string
	// AuthRateLimit is the per-client request rate on /api/auth/register and
	// /api/auth/login, in requests per second.
	AuthRateLimit float64
	AuthRateBurst int
	Version       string
}

type Server struct {
	svc     *jaegerservice.Services
	gw      jaegerdb.Gateway
	tokens  TokenValidator
	metrics *Metrics
	limiter *RateLimiter
	opts    Options
	log     *zap.Logger
	now     func() time.Time
}

func NewServer(svc *jaegerservice.Services, gw jaegerdb.Gateway, tokens TokenValidator, metrics *Metrics, opts Options, log *zap.Logger) *Server {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if opts.AuthRateLimit <= 0 {
		opts.AuthRateLimit = 5
	}
	if opts.AuthRateBurst <= 0 {
		opts.AuthRateBurst = 10
	}
	return &Server{
		svc:     svc,
		gw:      gw,
		tokens:  tokens,
		metrics: metrics,
		limiter: NewRateLimiter(opts.AuthRateLimit, opts.AuthRateBurst),
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

// Handler is the complete HTTP stack. CORS and logging sit outside the
// router so preflight requests never reach route matching.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)
	router.Use(s.metrics.Middleware)
	s.routes(router)

	var h http.Handler = router
	h = s.cors(h)
	h = s.requestLogger(h)
	h = s.recoverer(h)
	return h
}

func (s *Server) routes(r *mux.Router) {
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleReadiness).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.Handle("/register", s.rateLimited(http.HandlerFunc(s.handleRegister))).Methods(http.MethodPost)
	auth.Handle("/login", s.rateLimited(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)
	auth.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	auth.Handle("/me", s.authenticate(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authenticate)

	api.Handle("/users", s.requireRole(jaegermodel.RoleAdmin, s.handleGetUsers)).Methods(http.MethodGet)

	api.HandleFunc("/companies", s.handleListCompanies).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}", s.handleGetCompany).Methods(http.MethodGet)
	api.Handle("/companies", s.requireRole(jaegermodel.RoleAdmin, s.handleCreateCompany)).Methods(http.MethodPost)
	api.Handle("/companies/{id}", s.requireRole(jaegermodel.RoleAdmin, s.handleUpdateCompany)).Methods(http.MethodPatch)
	api.Handle("/companies/{id}", s.requireRole(jaegermodel.RoleAdmin, s.handleDeleteCompany)).Methods(http.MethodDelete)

	api.HandleFunc("/jobapplications", s.handleListApplications).Methods(http.MethodGet)
	api.HandleFunc("/jobapplications", s.handleCreateApplication).Methods(http.MethodPost)
	api.HandleFunc("/jobapplications/{id}", s.handleGetApplication).Methods(http.MethodGet)
	api.HandleFunc("/jobapplications/{id}", s.handleUpdateApplication).Methods(http.MethodPatch)
	api.HandleFunc("/jobapplications/{id}", s.handleDeleteApplication).Methods(http.MethodDelete)

	rounds := api.PathPrefix("/jobapplications/{applicationId}/interviews").Subrouter()
	rounds.HandleFunc("", s.handleListRounds).Methods(http.MethodGet)
	rounds.HandleFunc("", s.handleCreateRound).Methods(http.MethodPost)
	rounds.HandleFunc("/{id}", s.handleGetRound).Methods(http.MethodGet)
	rounds.HandleFunc("/{id}", s.handleUpdateRound).Methods(http.MethodPatch)
	rounds.HandleFunc("/{id}", s.handleDeleteRound).Methods(http.MethodDelete)
}
