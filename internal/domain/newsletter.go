package domain

import (
	"time"

	"github.com/recipebook/recipebook-client/internal/content"
)

// Newsletter is a post published by an admin.
type Newsletter struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Content   content.Content `json:"content"`
	Author    Author          `json:"author"`
	CreatedAt time.Time       `json:"created_at"`
}
