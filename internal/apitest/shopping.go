package apitest

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/recipebook/recipebook-client/internal/domain"
	"github.com/recipebook/recipebook-client/internal/http/response"
)

func (s *Server) handleListShopping(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := slices.Clone(s.shopping[currentUser(r).ID])
	s.mu.Unlock()

	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	response.Success(w, items, s.logger)
}

func (s *Server) handleAddShopping(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []string `json:"items"`
	}
	if !decodeJSON(r, &req) || len(req.Items) == 0 {
		response.BadRequest(w, "Items are required", s.logger)
		return
	}
	userID := currentUser(r).ID

	s.mu.Lock()
	created := make([]domain.ShoppingListItem, 0, len(req.Items))
	for _, name := range req.Items {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		item := domain.ShoppingListItem{ID: s.nextID("item"), Item: name}
		s.shopping[userID] = append(s.shopping[userID], item)
		created = append(created, item)
	}
	s.mu.Unlock()

	response.Created(w, created, s.logger)
}

func (s *Server) handleToggleShopping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := currentUser(r).ID

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.shopping[userID]
	i := slices.IndexFunc(items, func(it domain.ShoppingListItem) bool { return it.ID == id })
	if i < 0 {
		response.NotFound(w, "Item not found", s.logger)
		return
	}
	items[i].IsChecked = !items[i].IsChecked
	response.Success(w, items[i], s.logger)
}

func (s *Server) handleDeleteShopping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := currentUser(r).ID

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.shopping[userID]
	i := slices.IndexFunc(items, func(it domain.ShoppingListItem) bool { return it.ID == id })
	if i < 0 {
		response.NotFound(w, "Item not found", s.logger)
		return
	}
	s.shopping[userID] = slices.Delete(items, i, i+1)
	response.Message(w, "Item removed", s.logger)
}
