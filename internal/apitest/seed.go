package apitest

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/recipebook/recipebook-client/internal/content"
	"github.com/recipebook/recipebook-client/internal/domain"
)

// AddUser registers an active account and returns it with its assigned id.
func (s *Server) AddUser(u domain.User, password string) domain.User {
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAccount(u, password, true).user
}

// SetActive flips an account's active flag.
func (s *Server) SetActive(userID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.accounts[userID]; a != nil {
		a.active = active
	}
}

// IssueToken mints a bearer token for userID without going through login.
func (s *Server) IssueToken(userID string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return token
}

// RevokeTokens invalidates every token, forcing 401s on the next call.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// User returns the stored account for id.
func (s *Server) User(id string) (domain.User, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[id]
	if a == nil {
		return domain.User{}, false, false
	}
	return a.user, a.active, true
}

// AddRecipe stores rec, assigning an id when it has none.
func (s *Server) AddRecipe(rec domain.Recipe) domain.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = s.nextID("recipe")
	}
	if rec.Likes == nil {
		rec.Likes = []domain.Like{}
	}
	if rec.Comments == nil {
		rec.Comments = []domain.Comment{}
	}
	s.recipes = append(s.recipes, rec)
	return rec
}

// Recipes returns a copy of the stored recipes.
func (s *Server) Recipes() []domain.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecipes(s.recipes)
}

// AddNewsletter stores post, assigning an id and timestamp when missing.
func (s *Server) AddNewsletter(post domain.Newsletter) domain.Newsletter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == "" {
		post.ID = s.nextID("post")
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = s.now().UTC()
	}
	s.posts = append(s.posts, post)
	return post
}

// Newsletters returns a copy of the stored posts, oldest first.
func (s *Server) Newsletters() []domain.Newsletter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.posts)
}

// AddShoppingItem appends an item to userID's list.
func (s *Server) AddShoppingItem(userID, name string, checked bool) domain.ShoppingListItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := domain.ShoppingListItem{ID: s.nextID("item"), Item: name, IsChecked: checked}
	s.shopping[userID] = append(s.shopping[userID], item)
	return item
}

// ShoppingItems returns a copy of userID's list.
func (s *Server) ShoppingItems(userID string) []domain.ShoppingListItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.shopping[userID])
}

// ResetToken returns the outstanding password reset token for email.
func (s *Server) ResetToken(email string) string {
	return s.pendingToken(s.resetTokens, email)
}

// SetupToken returns the outstanding invitation token for email.
func (s *Server) SetupToken(email string) string {
	return s.pendingToken(s.setupTokens, email)
}

func (s *Server) pendingToken(tokens map[string]string, email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountByEmail(email)
	if a == nil {
		return ""
	}
	for tok, uid := range tokens {
		if uid == a.user.ID {
			return tok
		}
	}
	return ""
}

// Demo account credentials created by Seed.
const (
	DemoPassword   = "password123"
	DemoUserEmail  = "sarah@example.com"
	DemoAdminEmail = "admin@example.com"
	DemoOwnerEmail = "owner@example.com"
)

func pexels(id string) string {
	return "https://images.pexels.com/photos/" + id + "/pexels-photo-" + id + ".jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1"
}

// Seed fills the server with the demo data served by cmd/devserver.
func (s *Server) Seed() {
	owner := s.AddUser(domain.User{Username: "owner", Email: DemoOwnerEmail, Role: domain.RoleSuperAdmin}, DemoPassword)
	admin := s.AddUser(domain.User{Username: "chef", Email: DemoAdminEmail, Role: domain.RoleAdmin}, DemoPassword)
	sarah := s.AddUser(domain.User{
		Username:          "sarah",
		Email:             DemoUserEmail,
		Role:              domain.RoleUser,
		Bio:               "A passionate home cook exploring new flavors and sharing my journey.",
		ProfilePictureURL: "https://i.pinimg.com/736x/a0/dd/1b/a0dd1b06ffb50116537e15d377fa3b11.jpg",
	}, DemoPassword)

	chef := domain.Author{ID: admin.ID, Username: admin.Username}
	s.AddRecipe(domain.Recipe{
		Title:    "Spaghetti Carbonara",
		ImageURL: pexels("1437267"),
		CookTime: "25 minutes",
		Ingredients: []string{
			"200g spaghetti", "100g pancetta", "2 large eggs", "50g pecorino cheese", "Black pepper",
		},
		Instructions: []string{
			"Cook spaghetti according to package directions.",
			"Fry pancetta in a pan until crisp.",
			"Whisk eggs and pecorino cheese.",
			"Drain pasta and combine all ingredients quickly.",
		},
		Likes: []domain.Like{{UserID: owner.ID}},
		Comments: []domain.Comment{{
			ID:     "comment-seed-1",
			Text:   "So creamy and delicious!",
			Author: domain.Author{ID: sarah.ID, Username: sarah.Username},
		}},
		Author: chef,
	})
	s.AddRecipe(domain.Recipe{
		Title:    "Classic Pancakes",
		ImageURL: pexels("376464"),
		CookTime: "15 minutes",
		Ingredients: []string{
			"1 1/2 cups flour", "2 tbsp sugar", "1 1/4 cups milk", "1 egg", "2 tbsp melted butter",
		},
		Instructions: []string{
			"In a large bowl, mix dry ingredients.",
			"In a separate bowl, mix wet ingredients.",
			"Combine wet and dry, then cook on a lightly oiled griddle.",
		},
		Author: chef,
	})
	s.AddRecipe(domain.Recipe{
		Title:    "Simple Green Salad",
		ImageURL: pexels("1211887"),
		CookTime: "10 minutes",
		Ingredients: []string{
			"1 head of lettuce", "1 cucumber", "1 tomato", "1/4 red onion",
			"For dressing: 3 tbsp olive oil, 1 tbsp lemon juice, salt, pepper",
		},
		Instructions: []string{
			"Wash and chop all vegetables.",
			"In a large bowl, combine the lettuce, cucumber, tomato, and red onion.",
			"In a small bowl, whisk together olive oil, lemon juice, salt, and pepper.",
			"Pour dressing over the salad and toss to combine.",
			"Serve immediately.",
		},
		Author: chef,
	})

	s.AddNewsletter(domain.Newsletter{
		Title:    "Welcome to the RecipeBook newsletter",
		ImageURL: pexels("1640777"),
		Content: content.FromBlocks(
			content.Heading("What's cooking"),
			content.Paragraph("Every week we share a new seasonal recipe and a few kitchen tips."),
		),
		Author:    domain.Author{ID: owner.ID, Username: owner.Username},
		CreatedAt: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
	})

	s.AddShoppingItem(sarah.ID, "Milk", false)
	s.AddShoppingItem(sarah.ID, "Eggs", true)
}
