package apitest

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recipebook/recipebook-client/internal/domain"
	"github.com/recipebook/recipebook-client/internal/http/response"
)

// adminView must be called with s.mu held.
func (s *Server) adminView(a *account) domain.AdminUser {
	posts := 0
	for _, p := range s.posts {
		if p.Author.ID == a.user.ID {
			posts++
		}
	}
	return domain.AdminUser{
		ID:        a.user.ID,
		Username:  a.user.Username,
		Email:     a.user.Email,
		Role:      a.user.Role,
		IsActive:  a.active,
		PostCount: posts,
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	users := make([]domain.AdminUser, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, s.adminView(a))
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	response.Success(w, users, s.logger)
}

func (s *Server) handleSetUserActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if !decodeJSON(r, &req) || req.IsActive == nil {
		response.BadRequest(w, "isActive is required", s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[id]
	if a == nil {
		response.NotFound(w, "User not found", s.logger)
		return
	}
	if a.user.Role == domain.RoleSuperAdmin {
		response.Forbidden(w, "Cannot modify a super admin", s.logger)
		return
	}
	a.active = *req.IsActive
	response.Success(w, s.adminView(a), s.logger)
}

func (s *Server) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Role domain.Role `json:"role"`
	}
	if !decodeJSON(r, &req) || !req.Role.Assignable() {
		response.BadRequest(w, "Role must be user or admin", s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[id]
	if a == nil {
		response.NotFound(w, "User not found", s.logger)
		return
	}
	if a.user.Role == domain.RoleSuperAdmin {
		response.Forbidden(w, "Cannot modify a super admin", s.logger)
		return
	}
	a.user.Role = req.Role
	response.Success(w, s.adminView(a), s.logger)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[id]
	if a == nil {
		response.NotFound(w, "User not found", s.logger)
		return
	}
	if a.user.Role == domain.RoleSuperAdmin {
		response.Forbidden(w, "Cannot delete a super admin", s.logger)
		return
	}
	delete(s.accounts, id)
	delete(s.shopping, id)
	for tok, uid := range s.tokens {
		if uid == id {
			delete(s.tokens, tok)
		}
	}
	response.Message(w, "User deleted", s.logger)
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string      `json:"username"`
		Email    string      `json:"email"`
		Role     domain.Role `json:"role"`
	}
	if !decodeJSON(r, &req) || req.Email == "" || !req.Role.Assignable() {
		response.BadRequest(w, "Username, email and a user or admin role are required", s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountByEmail(req.Email) != nil {
		response.Error(w, http.StatusConflict, "User already exists", s.logger)
		return
	}
	a := s.addAccount(domain.User{Username: req.Username, Email: req.Email, Role: req.Role}, "", false)
	s.setupTokens[uuid.NewString()] = a.user.ID
	response.Message(w, "Invitation sent to "+req.Email, s.logger)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	var stats domain.DashboardStats
	stats.Users.Total = len(s.accounts)
	stats.Recipes.Total = len(s.recipes)
	stats.Posts.Total = len(s.posts)
	for _, rec := range s.recipes {
		stats.Interactions.Likes += len(rec.Likes)
		stats.Interactions.Comments += len(rec.Comments)
	}
	s.mu.Unlock()

	response.Success(w, stats, s.logger)
}
