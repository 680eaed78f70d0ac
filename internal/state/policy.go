package state

// Op names a mutating operation on App.
type Op string

// Operations with a declared update policy.
const (
	OpAddRecipe        Op = "add_recipe"
	OpUpdateRecipe     Op = "update_recipe"
	OpDeleteRecipe     Op = "delete_recipe"
	OpToggleLike       Op = "toggle_like"
	OpAddComment       Op = "add_comment"
	OpUpdateComment    Op = "update_comment"
	OpDeleteComment    Op = "delete_comment"
	OpAddShopping      Op = "add_to_shopping_list"
	OpToggleShopping   Op = "toggle_shopping_item"
	OpDeleteShopping   Op = "delete_shopping_item"
	OpAddNewsletter    Op = "add_newsletter"
	OpUpdateNewsletter Op = "update_newsletter"
	OpDeleteNewsletter Op = "delete_newsletter"
	OpUpdateProfile    Op = "update_profile"
)

// Update says how a successful mutation reaches the snapshot.
type Update int

const (
	// UpdateNone leaves the snapshot alone.
	UpdateNone Update = iota
	// UpdatePatch applies the server's response to the affected entity.
	UpdatePatch
	// UpdateRefetch reloads the whole collection from the server.
	UpdateRefetch
)

func (u Update) String() string {
	switch u {
	case UpdatePatch:
		return "patch"
	case UpdateRefetch:
		return "refetch"
	default:
		return "none"
	}
}

// Collection identifies a list that can be re-fetched.
type Collection int

// Re-fetchable collections.
const (
	CollectionNone Collection = iota
	CollectionRecipes
	CollectionNewsletters
	CollectionShoppingList
)

// Policy is the update rule for one operation. Collection is the list a
// re-fetch reloads; a patch whose response carries nothing to apply falls
// back to it.
type Policy struct {
	Update     Update
	Collection Collection
}

// Policies is the default rule for every mutating operation. Patches use
// the entity the server returned, so nothing changes before the server
// confirms it.
var Policies = map[Op]Policy{
	OpAddRecipe:        {UpdatePatch, CollectionRecipes},
	OpUpdateRecipe:     {UpdatePatch, CollectionRecipes},
	OpDeleteRecipe:     {UpdatePatch, CollectionRecipes},
	OpToggleLike:       {UpdateRefetch, CollectionRecipes},
	OpAddComment:       {UpdatePatch, CollectionRecipes},
	OpUpdateComment:    {UpdatePatch, CollectionRecipes},
	OpDeleteComment:    {UpdatePatch, CollectionRecipes},
	OpAddShopping:      {UpdateRefetch, CollectionShoppingList},
	OpToggleShopping:   {UpdatePatch, CollectionShoppingList},
	OpDeleteShopping:   {UpdatePatch, CollectionShoppingList},
	OpAddNewsletter:    {UpdateRefetch, CollectionNewsletters},
	OpUpdateNewsletter: {UpdateRefetch, CollectionNewsletters},
	OpDeleteNewsletter: {UpdatePatch, CollectionNewsletters},
	OpUpdateProfile:    {UpdatePatch, CollectionNone},
}
