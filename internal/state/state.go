// Package state is the session and state synchronization layer.
//
// A single Store holds the current State. Operations on App check
// authorization, validate input, call the remote API, and then dispatch a
// typed Action; Reduce computes the next State and the Store hands it to
// every subscriber. Whether an operation patches the snapshot from the
// response or re-fetches the affected collection is declared in Policies.
package state

import (
	"github.com/recipebook/recipebook-client/internal/domain"
)

// Phase is the session lifecycle stage.
type Phase string

// Session phases.
const (
	PhaseBootstrapping Phase = "bootstrapping"
	PhaseAuthenticated Phase = "authenticated"
	PhaseAnonymous     Phase = "anonymous"
)

// State is an immutable snapshot. Reduce never modifies the slices of a
// State it was given; it builds new ones, so a snapshot may be shared freely.
type State struct {
	Phase Phase
	User  *domain.User

	Recipes         []domain.Recipe
	Newsletters     []domain.Newsletter
	NewsletterPage  int // last page loaded, 0 when none
	NewsletterTotal int
	ShoppingList    []domain.ShoppingListItem

	IsLoading bool
	Theme     domain.Theme

	// Version increases by one on every dispatch.
	Version uint64
}

// Initial is the state before Bootstrap runs.
func Initial() State {
	return State{
		Phase: PhaseBootstrapping,
		Theme: domain.ThemeLight,
	}
}

// Authenticated reports whether a session user is present.
func (s State) Authenticated() bool {
	return domain.IsAuthenticated(s.User)
}

// Recipe returns the recipe with id.
func (s State) Recipe(id string) (domain.Recipe, bool) {
	for _, r := range s.Recipes {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Recipe{}, false
}

// Newsletter returns the newsletter with id.
func (s State) Newsletter(id string) (domain.Newsletter, bool) {
	for _, n := range s.Newsletters {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Newsletter{}, false
}

// HasMoreNewsletters reports whether further pages exist on the server.
func (s State) HasMoreNewsletters() bool {
	return len(s.Newsletters) < s.NewsletterTotal
}

// Collections is a set of freshly loaded lists.
type Collections struct {
	Recipes         []domain.Recipe
	Newsletters     []domain.Newsletter
	NewsletterTotal int
	ShoppingList    []domain.ShoppingListItem
}
