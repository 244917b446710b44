// Package devserver implements a small local NutriCare backend for
// development and testing. It keeps accounts, tokens, and nutrition
// reference data in memory and speaks the same wire protocol as the
// hosted API, including the httpOnly refresh cookie.
package devserver

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour

	// RefreshCookieName is the httpOnly cookie carrying the refresh token.
	RefreshCookieName = "nutricare_refresh"
)

//go:embed openapi.yaml
var openapiSpec []byte

type account struct {
	ID             int
	Email          string
	Username       string
	FirstName      string
	LastName       string
	Role           string
	PasswordHash   string
	Active         bool
	ActivationCode string
	ResetCode      string
}

type tokenInfo struct {
	Email     string
	ExpiresAt time.Time
}

// Server holds the in-memory state behind the REST handlers.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account
	tokens   map[string]tokenInfo
	refresh  map[string]tokenInfo
	nextID   int

	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Server instance.
type Option func(*Server)

// WithLogger sets the structured logger for request events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a new Server instance.
func New(opts ...Option) *Server {
	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]tokenInfo),
		refresh:  make(map[string]tokenInfo),
		nextID:   1,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return s
}

// Router returns a chi.Router with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/openapi.yaml",
		Path:    "docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/openapi.yaml",
		Path:    "redoc",
	}, nil))

	r.Route("/users", func(r chi.Router) {
		r.Post("/login/", s.Login)
		r.Post("/register/", s.Register)
		r.Post("/activate/", s.Activate)
		r.Post("/sendactivate/", s.ResendActivation)
		r.Post("/refresh/", s.Refresh)
		r.Post("/logout/", s.Logout)
		r.Post("/resetpassword/", s.RequestPasswordReset)
		r.Post("/resetpassword-verify/", s.VerifyPasswordReset)
	})

	r.Route("/nutritions", func(r chi.Router) {
		r.Get("/equations/", s.ListEquations)
		r.Get("/drug-categories/", s.ListDrugCategories)
		r.Get("/drugs/", s.SearchDrugs)
		r.Get("/drugs/{categoryID}", s.ListDrugsByCategory)
		r.Get("/drug-details/{drugID}", s.GetDrugDetails)
		r.With(s.AuthMiddleware).Get("/calculations/", s.ListCalculations)
	})

	return r
}
