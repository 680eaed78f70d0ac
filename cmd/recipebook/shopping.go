package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShoppingCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shopping",
		Aliases: []string{"shop"},
		Short:   "Manage your shopping list",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the shopping list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.RefreshShoppingList(cmd.Context()); err != nil {
				return err
			}
			items := app.Snapshot().ShoppingList
			if len(items) == 0 {
				c.printf("Your shopping list is empty\n")
				return nil
			}
			rows := make([]string, 0, len(items))
			for _, it := range items {
				mark := "[ ]"
				if it.IsChecked {
					mark = "[x]"
				}
				rows = append(rows, fmt.Sprintf("%s\t%s\t%s", it.ID, mark, it.Item))
			}
			return c.table("ID\t\tITEM", rows)
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <item>...",
		Short: "Add items, one per argument",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			items, err := app.AddToShoppingList(cmd.Context(), args)
			if err != nil {
				return err
			}
			c.printf("Added %d items\n", len(items))
			return nil
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "check <id>",
		Short: "Check or uncheck an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			it, err := app.ToggleShoppingListItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.printf("%s checked: %s\n", it.Item, yesNo(it.IsChecked))
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.DeleteShoppingListItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printf("Removed %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, toggleCmd, rmCmd)
	return cmd
}
