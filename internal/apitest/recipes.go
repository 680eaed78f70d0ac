package apitest

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/recipebook/recipebook-client/internal/domain"
	"github.com/recipebook/recipebook-client/internal/http/response"
)

func (s *Server) handleListRecipes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	recipes := cloneRecipes(s.recipes)
	s.mu.Unlock()

	response.Success(w, recipes, s.logger)
}

// recipeFromForm reads the multipart recipe fields.
func recipeFromForm(r *http.Request) (domain.Recipe, bool) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return domain.Recipe{}, false
	}
	rec := domain.Recipe{
		Title:        strings.TrimSpace(r.FormValue("title")),
		CookTime:     strings.TrimSpace(r.FormValue("cookTime")),
		Ingredients:  r.MultipartForm.Value["ingredients[]"],
		Instructions: r.MultipartForm.Value["instructions[]"],
		ImageURL:     uploadedImageURL(r),
	}
	return rec, rec.Title != "" && rec.CookTime != "" && len(rec.Ingredients) > 0 && len(rec.Instructions) > 0
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	rec, ok := recipeFromForm(r)
	if !ok {
		response.BadRequest(w, "Title, cook time, ingredients and instructions are required", s.logger)
		return
	}
	user := currentUser(r)

	s.mu.Lock()
	rec.ID = s.nextID("recipe")
	rec.Author = domain.Author{ID: user.ID, Username: user.Username}
	rec.Likes = []domain.Like{}
	rec.Comments = []domain.Comment{}
	s.recipes = append(s.recipes, rec)
	s.mu.Unlock()

	response.Created(w, rec, s.logger)
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	upd, ok := recipeFromForm(r)
	if !ok {
		response.BadRequest(w, "Title, cook time, ingredients and instructions are required", s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.recipe(id)
	if rec == nil {
		response.NotFound(w, "Recipe not found", s.logger)
		return
	}
	rec.Title, rec.CookTime = upd.Title, upd.CookTime
	rec.Ingredients, rec.Instructions = upd.Ingredients, upd.Instructions
	if upd.ImageURL != "" {
		rec.ImageURL = upd.ImageURL
	}
	response.Success(w, *rec, s.logger)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.recipes, func(rec domain.Recipe) bool { return rec.ID == id })
	if i < 0 {
		response.NotFound(w, "Recipe not found", s.logger)
		return
	}
	s.recipes = slices.Delete(s.recipes, i, i+1)
	response.Message(w, "Recipe deleted", s.logger)
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := currentUser(r).ID

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.recipe(id)
	if rec == nil {
		response.NotFound(w, "Recipe not found", s.logger)
		return
	}

	liked := !rec.LikedBy(userID)
	if liked {
		rec.Likes = append(rec.Likes, domain.Like{UserID: userID})
	} else {
		rec.Likes = slices.DeleteFunc(rec.Likes, func(l domain.Like) bool { return l.UserID == userID })
	}
	response.Success(w, map[string]bool{"liked": liked}, s.logger)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(r, &req) || strings.TrimSpace(req.Text) == "" {
		response.BadRequest(w, "Comment text is required", s.logger)
		return
	}
	user := currentUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.recipe(id)
	if rec == nil {
		response.NotFound(w, "Recipe not found", s.logger)
		return
	}
	c := domain.Comment{
		ID:     s.nextID("comment"),
		Text:   req.Text,
		Author: domain.Author{ID: user.ID, Username: user.Username},
	}
	rec.Comments = append(rec.Comments, c)
	response.Created(w, c, s.logger)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(r, &req) || strings.TrimSpace(req.Text) == "" {
		response.BadRequest(w, "Comment text is required", s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownComment(w, r)
	if !ok {
		return
	}
	c.Text = req.Text
	response.Success(w, *c, s.logger)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownComment(w, r)
	if !ok {
		return
	}
	rec := s.recipe(chi.URLParam(r, "id"))
	commentID := c.ID
	rec.Comments = slices.DeleteFunc(rec.Comments, func(c domain.Comment) bool { return c.ID == commentID })
	response.Message(w, "Comment deleted", s.logger)
}

// ownComment finds the addressed comment and checks the caller may edit it.
// Must be called with s.mu held; it writes the error response itself.
func (s *Server) ownComment(w http.ResponseWriter, r *http.Request) (*domain.Comment, bool) {
	rec := s.recipe(chi.URLParam(r, "id"))
	if rec == nil {
		response.NotFound(w, "Recipe not found", s.logger)
		return nil, false
	}
	cid := chi.URLParam(r, "cid")
	i := slices.IndexFunc(rec.Comments, func(c domain.Comment) bool { return c.ID == cid })
	if i < 0 {
		response.NotFound(w, "Comment not found", s.logger)
		return nil, false
	}
	user := currentUser(r)
	if rec.Comments[i].Author.ID != user.ID && !user.Role.AtLeast(domain.RoleAdmin) {
		response.Forbidden(w, "Not authorized", s.logger)
		return nil, false
	}
	return &rec.Comments[i], true
}

// recipe must be called with s.mu held.
func (s *Server) recipe(id string) *domain.Recipe {
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			return &s.recipes[i]
		}
	}
	return nil
}

func cloneRecipes(in []domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, len(in))
	for i, r := range in {
		r.Ingredients = slices.Clone(r.Ingredients)
		r.Instructions = slices.Clone(r.Instructions)
		r.Likes = slices.Clone(r.Likes)
		r.Comments = slices.Clone(r.Comments)
		out[i] = r
	}
	return out
}
