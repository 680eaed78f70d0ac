package domain

import (
	"strings"

	"github.com/recipebook/recipebook-client/internal/content"
)

// Form inputs carry validate tags checked by internal/validation before any
// request is made. Inputs with rules a tag cannot express implement
// FieldChecker.

// FieldChecker reports field problems beyond what struct tags cover.
type FieldChecker interface {
	CheckFields() map[string]string
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignupInput is the registration form.
type SignupInput struct {
	Username        string `json:"username" validate:"required,notblank,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ForgotPasswordInput requests a reset link.
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput completes a password reset from an emailed token.
type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required,notblank"`
	Password string `json:"newPassword" validate:"required,min=6"`
}

// SetupAccountInput activates an invited account.
type SetupAccountInput struct {
	Token           string `json:"token" validate:"required,notblank"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// InviteInput is the super admin "create user" form.
type InviteInput struct {
	Username string `json:"username" validate:"required,notblank,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Role     Role   `json:"role" validate:"required,oneof=user admin"`
}

// RoleInput changes another user's role.
type RoleInput struct {
	Role Role `json:"role" validate:"required,oneof=user admin"`
}

// CommentInput is the text of a new or edited comment.
type CommentInput struct {
	Text string `json:"text" validate:"required,notblank"`
}

// ProfileInput edits the session user's profile.
type ProfileInput struct {
	Username string      `json:"username" validate:"required,notblank,min=2,max=50"`
	Email    string      `json:"email" validate:"required,email"`
	Bio      string      `json:"bio" validate:"max=200"`
	Picture  *Attachment `json:"-"`
}

// RecipeInput is the add/edit recipe form.
type RecipeInput struct {
	Title        string      `json:"title" validate:"required,notblank"`
	CookTime     string      `json:"cookTime" validate:"required,notblank"`
	Ingredients  []string    `json:"ingredients" validate:"min=1,dive,notblank"`
	Instructions []string    `json:"instructions" validate:"min=1,dive,notblank"`
	Image        *Attachment `json:"-"`
}

// Normalized trims every line and drops empty rows, as the form's "remove
// row" affordance would.
func (in RecipeInput) Normalized() RecipeInput {
	in.Title = strings.TrimSpace(in.Title)
	in.CookTime = strings.TrimSpace(in.CookTime)
	in.Ingredients = compact(in.Ingredients)
	in.Instructions = compact(in.Instructions)
	return in
}

func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Minimum length of a flat-text newsletter body.
const minNewsletterText = 20

// NewsletterInput is the create/edit newsletter form.
type NewsletterInput struct {
	Title   string          `json:"title" validate:"required,notblank,min=5"`
	Content content.Content `json:"-"`
	Image   *Attachment     `json:"-"`
}

// CheckFields requires a text body of at least 20 characters or at least one
// non-empty block.
func (in NewsletterInput) CheckFields() map[string]string {
	c := in.Content
	switch {
	case c.IsBlocks() && c.IsEmpty():
		return map[string]string{"content": "must contain at least one block"}
	case !c.IsBlocks() && len([]rune(strings.TrimSpace(c.Text))) < minNewsletterText:
		return map[string]string{"content": "must be at least 20 characters"}
	}
	return nil
}
