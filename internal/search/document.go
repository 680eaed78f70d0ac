// Package search provides local full-text search over the loaded recipes and
// newsletters using an in-memory Bleve index.
package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeRecipe     DocType = "recipe"
	DocTypeNewsletter DocType = "newsletter"
)

// Document is the unified structure stored in the index. Recipes and
// newsletters share one index and are told apart by Type.
type Document struct {
	ID     string  `json:"id"`   // Entity id as the server assigned it
	Type   DocType `json:"type"` // Discriminator for filtering
	Title  string  `json:"title"`
	Body   string  `json:"body,omitempty"`
	Author string  `json:"author,omitempty"`
}

// key is the index document id. Server ids are only unique per collection.
func (d *Document) key() string {
	return string(d.Type) + "/" + d.ID
}

// ToMap converts the document to a map whose field names match the mapping.
// Text is NFC-normalized so composed and decomposed input index alike.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":    d.ID,
		"type":  string(d.Type),
		"title": norm.NFC.String(d.Title),
	}
	if d.Body != "" {
		m["body"] = norm.NFC.String(d.Body)
	}
	if d.Author != "" {
		m["author"] = norm.NFC.String(d.Author)
	}
	return m
}

// RecipeDocument converts a recipe. Ingredients and instructions are both
// searchable body text.
func RecipeDocument(r domain.Recipe) *Document {
	body := make([]string, 0, len(r.Ingredients)+len(r.Instructions))
	body = append(body, r.Ingredients...)
	body = append(body, r.Instructions...)
	return &Document{
		ID:     r.ID,
		Type:   DocTypeRecipe,
		Title:  r.Title,
		Body:   strings.Join(body, "\n"),
		Author: r.Author.Username,
	}
}

// NewsletterDocument converts a newsletter, flattening block content to text.
func NewsletterDocument(n domain.Newsletter) *Document {
	return &Document{
		ID:     n.ID,
		Type:   DocTypeNewsletter,
		Title:  n.Title,
		Body:   n.Content.PlainText(),
		Author: n.Author.Username,
	}
}
