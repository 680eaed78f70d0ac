package domain

// Total is a single counter in the dashboard statistics.
type Total struct {
	Total int `json:"total"`
}

// Interactions counts user engagement across all recipes.
type Interactions struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// DashboardStats is the super admin overview.
type DashboardStats struct {
	Users        Total        `json:"users"`
	Recipes      Total        `json:"recipes"`
	Posts        Total        `json:"posts"`
	Interactions Interactions `json:"interactions"`
}

// Theme is the persisted UI color scheme.
type Theme string

// Theme values.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid returns true if the theme is a recognized value.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme. Unknown values toggle to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
