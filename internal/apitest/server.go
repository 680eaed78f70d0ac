// Package apitest is an in-memory implementation of the recipebook API.
//
// It serves the same routes and envelope as the real backend, records every
// request it receives, and lets tests inject failures per route. Tests mount
// it with httptest.NewServer; cmd/devserver serves it on a port.
package apitest

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/recipebook/recipebook-client/internal/domain"
	"github.com/recipebook/recipebook-client/internal/http/response"
	"github.com/recipebook/recipebook-client/internal/ratelimit"
)

// maxMemory bounds multipart parsing.
const maxMemory = 8 << 20

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
	At     time.Time
}

// Multipart parses a recorded multipart body.
func (r Request) Multipart() (*multipart.Form, error) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return multipart.NewReader(bytes.NewReader(r.Body), params["boundary"]).ReadForm(maxMemory)
}

type account struct {
	user     domain.User
	password string
	active   bool
}

// Server is the fake backend. Safe for concurrent use.
type Server struct {
	router *chi.Mux
	logger *slog.Logger

	mu          sync.Mutex
	seq         int
	accounts    map[string]*account // by user id
	tokens      map[string]string   // token -> user id
	resetTokens map[string]string   // token -> user id
	setupTokens map[string]string   // token -> user id
	recipes     []domain.Recipe
	posts       []domain.Newsletter
	shopping    map[string][]domain.ShoppingListItem // by user id
	overrides   map[string]http.HandlerFunc          // "METHOD /path"
	requests    []Request
	now         func() time.Time
	logins      *ratelimit.Keyed // nil when login attempts are not throttled
}

// Option configures a Server.
type Option func(*Server)

// WithLogger logs requests through logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithClock fixes the time used for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLoginLimit throttles login attempts per email address. Throttled
// attempts get 429 Too Many Requests; a successful login refills the bucket.
func WithLoginLimit(perSecond float64, burst int) Option {
	return func(s *Server) { s.logins = ratelimit.New(perSecond, burst) }
}

// New creates an empty fake backend.
func New(opts ...Option) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		logger:      slog.New(slog.DiscardHandler),
		accounts:    make(map[string]*account),
		tokens:      make(map[string]string),
		resetTokens: make(map[string]string),
		setupTokens: make(map[string]string),
		shopping:    make(map[string][]domain.ShoppingListItem),
		overrides:   make(map[string]http.HandlerFunc),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.record)
	s.router.Use(s.override)
}

func (s *Server) setupRoutes() {
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/signup", s.handleSignup)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password/{token}", s.handleResetPassword)
		r.Post("/setup-account/{token}", s.handleSetupAccount)
	})

	s.router.Get("/recipes/get", s.handleListRecipes)
	s.router.Get("/posts/get", s.handleListPosts)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/users/profile/me", s.handleGetProfile)
		r.Put("/users/profile/me", s.handleUpdateProfile)

		r.Post("/recipes/{id}/like", s.handleToggleLike)
		r.Post("/recipes/{id}/comments", s.handleAddComment)
		r.Put("/recipes/{id}/comments/{cid}", s.handleUpdateComment)
		r.Delete("/recipes/{id}/comments/{cid}", s.handleDeleteComment)

		r.Get("/shopping", s.handleListShopping)
		r.Post("/shopping/add", s.handleAddShopping)
		r.Patch("/shopping/{id}/toggle", s.handleToggleShopping)
		r.Delete("/shopping/{id}", s.handleDeleteShopping)

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(domain.RoleAdmin))

			r.Post("/recipes/create", s.handleCreateRecipe)
			r.Put("/recipes/update/{id}", s.handleUpdateRecipe)
			r.Delete("/recipes/delete/{id}", s.handleDeleteRecipe)

			r.Post("/posts/add", s.handleCreatePost)
			r.Put("/posts/{id}", s.handleUpdatePost)
			r.Delete("/posts/{id}", s.handleDeletePost)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(domain.RoleSuperAdmin))

			r.Get("/users", s.handleListUsers)
			r.Put("/users/{id}", s.handleSetUserActive)
			r.Patch("/users/{id}/role", s.handleChangeRole)
			r.Delete("/users/{id}", s.handleDeleteUser)
			r.Post("/users/invite", s.handleInvite)
			r.Get("/stats", s.handleStats)
		})
	})
}

// record keeps a copy of every request, including its body.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
			At:     s.now(),
		})
		s.mu.Unlock()

		s.logger.Debug("fake api request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) override(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		h, ok := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			h(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Override replaces the handler for one method and exact path.
func (s *Server) Override(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = h
}

// Fail makes method and path answer with an error envelope.
func (s *Server) Fail(method, path string, status int, message string) {
	s.Override(method, path, func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, status, message, nil)
	})
}

// ClearOverrides restores the default handlers.
func (s *Server) ClearOverrides() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string]http.HandlerFunc)
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// RequestsTo returns the recorded requests for one method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// ClearRequests forgets the recorded requests.
func (s *Server) ClearRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// nextID must be called with s.mu held.
func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}
