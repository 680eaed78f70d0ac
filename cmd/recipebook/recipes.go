package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recipebook/recipebook-client/internal/domain"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
	"github.com/recipebook/recipebook-client/internal/state"
)

func newRecipesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"recipe"},
		Short:   "Browse, like and comment on recipes",
	}
	cmd.AddCommand(
		newRecipesListCmd(c),
		newRecipesShowCmd(c),
		newRecipeFormCmd(c, false),
		newRecipeFormCmd(c, true),
		newRecipesDeleteCmd(c),
		newRecipesLikeCmd(c),
		newRecipesShopCmd(c),
		newCommentsCmd(c),
	)
	return cmd
}

func recipeRow(r domain.Recipe) string {
	return fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%s",
		r.ID, r.Title, r.CookTime, r.LikeCount(), len(r.Comments), r.Author.Username)
}

func (c *cli) recipeTable(recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		c.printf("No recipes\n")
		return nil
	}
	rows := make([]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, recipeRow(r))
	}
	return c.table("ID\tTITLE\tCOOK TIME\tLIKES\tCOMMENTS\tAUTHOR", rows)
}

func newRecipesListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			return c.recipeTable(app.Snapshot().Recipes)
		},
	}
}

// findRecipe looks id up in the current snapshot.
func findRecipe(s state.State, id string) (domain.Recipe, error) {
	r, ok := s.Recipe(id)
	if !ok {
		return domain.Recipe{}, domainerrors.NotFoundf("recipe %s not found", id)
	}
	return r, nil
}

func newRecipesShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe with its ingredients, steps and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			s := app.Snapshot()
			r, err := findRecipe(s, args[0])
			if err != nil {
				return err
			}

			c.printf("%s\nby %s, %s\n", r.Title, r.Author.Username, r.CookTime)
			likes := fmt.Sprintf("%d likes", r.LikeCount())
			if s.User != nil && r.LikedBy(s.User.ID) {
				likes += ", including yours"
			}
			c.printf("%s\n", likes)
			if r.ImageURL != "" {
				c.printf("Image: %s\n", r.ImageURL)
			}

			c.printf("\nIngredients\n")
			for _, line := range r.Ingredients {
				c.printf("  - %s\n", line)
			}
			c.printf("\nInstructions\n")
			for i, step := range r.Instructions {
				c.printf("  %d. %s\n", i+1, step)
			}
			if len(r.Comments) > 0 {
				c.printf("\nComments\n")
				for _, cm := range r.Comments {
					c.printf("  [%s] %s: %s\n", cm.ID, cm.Author.Username, cm.Text)
				}
			}
			return nil
		},
	}
}

// newRecipeFormCmd builds "add" or, when edit is set, "edit <id>". Edit
// starts from the recipe's current values.
func newRecipeFormCmd(c *cli, edit bool) *cobra.Command {
	var (
		in    domain.RecipeInput
		image string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe (admins)",
		Args:  cobra.NoArgs,
	}
	if edit {
		cmd.Use = "edit <id>"
		cmd.Short = "Edit a recipe (admins)"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		app, err := c.open(cmd.Context())
		if err != nil {
			return err
		}
		if edit {
			current, err := findRecipe(app.Snapshot(), args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if !f.Changed("title") {
				in.Title = current.Title
			}
			if !f.Changed("cook-time") {
				in.CookTime = current.CookTime
			}
			if !f.Changed("ingredient") {
				in.Ingredients = current.Ingredients
			}
			if !f.Changed("step") {
				in.Instructions = current.Instructions
			}
		}
		if image != "" {
			img, closeImg, err := openAttachment(image)
			if err != nil {
				return err
			}
			defer closeImg()
			in.Image = img
		}

		var r *domain.Recipe
		if edit {
			r, err = app.UpdateRecipe(cmd.Context(), args[0], in)
		} else {
			r, err = app.AddRecipe(cmd.Context(), in)
		}
		if err != nil {
			return err
		}
		c.printf("Saved recipe %s (%s)\n", r.Title, r.ID)
		return nil
	}

	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "Recipe title")
	f.StringVar(&in.CookTime, "cook-time", "", "Cooking time, e.g. \"25 mins\"")
	f.StringArrayVar(&in.Ingredients, "ingredient", nil, "Ingredient line (repeatable)")
	f.StringArrayVar(&in.Instructions, "step", nil, "Instruction step (repeatable)")
	f.StringVar(&image, "image", "", "Path to a cover image")
	return cmd
}

func newRecipesDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a recipe (admins)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.DeleteRecipe(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printf("Deleted recipe %s\n", args[0])
			return nil
		},
	}
}

func newRecipesLikeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Like or unlike a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			liked, err := app.ToggleLike(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r, _ := app.Snapshot().Recipe(args[0])
			if liked {
				c.printf("Liked %s (%d likes)\n", r.Title, r.LikeCount())
			} else {
				c.printf("Unliked %s (%d likes)\n", r.Title, r.LikeCount())
			}
			return nil
		},
	}
}

func newRecipesShopCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shop <id>",
		Short: "Add a recipe's ingredients to the shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			r, err := findRecipe(app.Snapshot(), args[0])
			if err != nil {
				return err
			}
			items, err := app.AddToShoppingList(cmd.Context(), r.Ingredients)
			if err != nil {
				return err
			}
			c.printf("Added %d items to the shopping list\n", len(items))
			return nil
		},
	}
}

func newCommentsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Add, edit or delete comments",
	}

	addCmd := &cobra.Command{
		Use:   "add <recipe-id> <text>...",
		Short: "Comment on a recipe",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			in := domain.CommentInput{Text: strings.Join(args[1:], " ")}
			cm, err := app.AddComment(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			c.printf("Added comment %s\n", cm.ID)
			return nil
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit <recipe-id> <comment-id> <text>...",
		Short: "Edit one of your comments",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			in := domain.CommentInput{Text: strings.Join(args[2:], " ")}
			cm, err := app.UpdateComment(cmd.Context(), args[0], args[1], in)
			if err != nil {
				return err
			}
			c.printf("Updated comment %s\n", cm.ID)
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <recipe-id> <comment-id>",
		Aliases: []string{"delete"},
		Short:   "Delete one of your comments",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.DeleteComment(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			c.printf("Deleted comment %s\n", args[1])
			return nil
		},
	}

	cmd.AddCommand(addCmd, editCmd, rmCmd)
	return cmd
}
