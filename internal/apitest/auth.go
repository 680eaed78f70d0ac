package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recipebook/recipebook-client/internal/domain"
	"github.com/recipebook/recipebook-client/internal/http/response"
)

type contextKey struct{}

// requireAuth resolves the bearer token to an active account.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(w, "Not authorized, no token", s.logger)
			return
		}

		s.mu.Lock()
		acct := s.accounts[s.tokens[token]]
		var user domain.User
		active := false
		if acct != nil {
			user, active = acct.user, acct.active
		}
		s.mu.Unlock()

		if acct == nil {
			response.Unauthorized(w, "Not authorized, token failed", s.logger)
			return
		}
		if !active {
			response.Forbidden(w, "Account is deactivated", s.logger)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, user)))
	})
}

func (s *Server) requireRole(min domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !currentUser(r).Role.AtLeast(min) {
				response.Forbidden(w, "Not authorized", s.logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func currentUser(r *http.Request) domain.User {
	u, _ := r.Context().Value(contextKey{}).(domain.User)
	return u
}

func decodeJSON(r *http.Request, dest any) bool {
	return json.NewDecoder(r.Body).Decode(dest) == nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(r, &req) {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	key := strings.ToLower(strings.TrimSpace(req.Email))
	if s.logins != nil && !s.logins.Allow(key) {
		response.Error(w, http.StatusTooManyRequests, "Too many login attempts. Please try again later.", s.logger)
		return
	}

	s.mu.Lock()
	acct := s.accountByEmail(req.Email)
	if acct == nil || acct.password != req.Password {
		s.mu.Unlock()
		response.Unauthorized(w, "Invalid email or password", s.logger)
		return
	}
	if !acct.active {
		s.mu.Unlock()
		response.Forbidden(w, "Account is deactivated", s.logger)
		return
	}
	token := uuid.NewString()
	s.tokens[token] = acct.user.ID
	user := acct.user
	s.mu.Unlock()

	if s.logins != nil {
		s.logins.Reset(key)
	}
	response.Success(w, map[string]any{"token": token, "user": user}, s.logger)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(r, &req) || req.Email == "" || req.Password == "" {
		response.BadRequest(w, "Username, email and password are required", s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountByEmail(req.Email) != nil {
		response.Error(w, http.StatusConflict, "User already exists", s.logger)
		return
	}
	s.addAccount(domain.User{Username: req.Username, Email: req.Email, Role: domain.RoleUser}, req.Password, true)
	response.Message(w, "Registration successful. Please log in.", s.logger)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(r, &req) {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	s.mu.Lock()
	if acct := s.accountByEmail(req.Email); acct != nil {
		s.resetTokens[uuid.NewString()] = acct.user.ID
	}
	s.mu.Unlock()

	response.Message(w, "If an account with that email exists, a reset link has been sent.", s.logger)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if !decodeJSON(r, &req) || req.NewPassword == "" {
		response.BadRequest(w, "New password is required", s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[s.resetTokens[token]]
	if acct == nil {
		response.BadRequest(w, "Reset link is invalid or has expired", s.logger)
		return
	}
	delete(s.resetTokens, token)
	acct.password = req.NewPassword
	response.Message(w, "Password has been reset. You can now log in.", s.logger)
}

func (s *Server) handleSetupAccount(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var req struct {
		Password string `json:"password"`
	}
	if !decodeJSON(r, &req) || req.Password == "" {
		response.BadRequest(w, "Password is required", s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[s.setupTokens[token]]
	if acct == nil {
		response.BadRequest(w, "Invitation is invalid or has expired", s.logger)
		return
	}
	delete(s.setupTokens, token)
	acct.password = req.Password
	acct.active = true
	response.Message(w, "Account activated. You can now log in.", s.logger)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acct := s.accounts[currentUser(r).ID]
	var user domain.User
	if acct != nil {
		user = acct.user
	}
	s.mu.Unlock()

	if acct == nil {
		response.NotFound(w, "User not found", s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		response.BadRequest(w, "Expected multipart form", s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[currentUser(r).ID]
	if acct == nil {
		response.NotFound(w, "User not found", s.logger)
		return
	}
	if v := r.FormValue("username"); v != "" {
		acct.user.Username = v
	}
	if v := r.FormValue("email"); v != "" {
		acct.user.Email = v
	}
	acct.user.Bio = r.FormValue("bio")
	if url := uploadedImageURL(r); url != "" {
		acct.user.ProfilePictureURL = url
	}
	response.Success(w, acct.user, s.logger)
}

// accountByEmail must be called with s.mu held.
func (s *Server) accountByEmail(email string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, email) {
			return a
		}
	}
	return nil
}

// addAccount must be called with s.mu held.
func (s *Server) addAccount(u domain.User, password string, active bool) *account {
	if u.ID == "" {
		u.ID = s.nextID("user")
	}
	a := &account{user: u, password: password, active: active}
	s.accounts[u.ID] = a
	return a
}

// uploadedImageURL returns a hosted URL for the "image" part, or "".
func uploadedImageURL(r *http.Request) string {
	if r.MultipartForm == nil {
		return ""
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return ""
	}
	return "https://images.recipebook.test/" + files[0].Filename
}
