package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(c *cli) *cobra.Command {
	var newsletters bool
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search loaded recipes, or newsletters with --newsletters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.syncIndex(); err != nil {
				return err
			}
			q := strings.Join(args, " ")
			if newsletters {
				posts, err := app.SearchNewsletters(q)
				if err != nil {
					return err
				}
				return c.newsletterTable(posts)
			}
			recipes, err := app.SearchRecipes(q)
			if err != nil {
				return err
			}
			return c.recipeTable(recipes)
		},
	}
	cmd.Flags().BoolVarP(&newsletters, "newsletters", "n", false, "Search newsletters instead of recipes")
	return cmd
}
