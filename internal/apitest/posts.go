package apitest

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/recipebook/recipebook-client/internal/content"
	"github.com/recipebook/recipebook-client/internal/domain"
	"github.com/recipebook/recipebook-client/internal/http/response"
)

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	page := positiveInt(r.URL.Query().Get("page"), 1)
	limit := positiveInt(r.URL.Query().Get("limit"), 10)

	s.mu.Lock()
	// Newest first.
	posts := slices.Clone(s.posts)
	s.mu.Unlock()
	slices.Reverse(posts)

	total := len(posts)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	response.Success(w, map[string]any{
		"posts": posts[start:end],
		"page":  page,
		"limit": limit,
		"total": total,
	}, s.logger)
}

// postFromForm reads title, content, and image. Content holding a JSON array
// is decoded as blocks; anything else is flat text.
func postFromForm(r *http.Request) (domain.Newsletter, string) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return domain.Newsletter{}, "Expected multipart form"
	}
	post := domain.Newsletter{
		Title:    strings.TrimSpace(r.FormValue("title")),
		ImageURL: uploadedImageURL(r),
	}
	if post.Title == "" {
		return post, "Title is required"
	}

	raw := r.FormValue("content")
	if strings.HasPrefix(strings.TrimSpace(raw), "[") {
		if err := json.Unmarshal([]byte(raw), &post.Content); err != nil {
			return post, "Invalid content blocks"
		}
	} else {
		post.Content = content.FromText(raw)
	}
	return post, ""
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	post, problem := postFromForm(r)
	if problem != "" {
		response.BadRequest(w, problem, s.logger)
		return
	}
	user := currentUser(r)

	s.mu.Lock()
	post.ID = s.nextID("post")
	post.Author = domain.Author{ID: user.ID, Username: user.Username}
	post.CreatedAt = s.now().UTC()
	s.posts = append(s.posts, post)
	s.mu.Unlock()

	response.Created(w, post, s.logger)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	upd, problem := postFromForm(r)
	if problem != "" {
		response.BadRequest(w, problem, s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.posts, func(p domain.Newsletter) bool { return p.ID == id })
	if i < 0 {
		response.NotFound(w, "Post not found", s.logger)
		return
	}
	post := &s.posts[i]
	post.Title, post.Content = upd.Title, upd.Content
	if upd.ImageURL != "" {
		post.ImageURL = upd.ImageURL
	}
	response.Success(w, *post, s.logger)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.posts, func(p domain.Newsletter) bool { return p.ID == id })
	if i < 0 {
		response.NotFound(w, "Post not found", s.logger)
		return
	}
	s.posts = slices.Delete(s.posts, i, i+1)
	response.Message(w, "Post deleted", s.logger)
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
