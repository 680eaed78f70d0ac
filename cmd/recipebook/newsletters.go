package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recipebook/recipebook-client/internal/content"
	"github.com/recipebook/recipebook-client/internal/domain"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
)

func newNewslettersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "newsletters",
		Aliases: []string{"newsletter", "posts"},
		Short:   "Read and publish newsletters",
	}
	cmd.AddCommand(
		newNewslettersListCmd(c),
		newNewslettersShowCmd(c),
		newNewsletterFormCmd(c, false),
		newNewsletterFormCmd(c, true),
		newNewslettersDeleteCmd(c),
	)
	return cmd
}

func (c *cli) newsletterTable(posts []domain.Newsletter) error {
	if len(posts) == 0 {
		c.printf("No newsletters\n")
		return nil
	}
	rows := make([]string, 0, len(posts))
	for _, n := range posts {
		date := ""
		if !n.CreatedAt.IsZero() {
			date = n.CreatedAt.Format("2006-01-02")
		}
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s", n.ID, n.Title, n.Author.Username, date))
	}
	return c.table("ID\tTITLE\tAUTHOR\tDATE", rows)
}

func newNewslettersListCmd(c *cli) *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List newsletters, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			for i := 1; i < pages; i++ {
				more, err := app.LoadMoreNewsletters(cmd.Context())
				if err != nil {
					return err
				}
				if !more {
					break
				}
			}

			s := app.Snapshot()
			if err := c.newsletterTable(s.Newsletters); err != nil {
				return err
			}
			if s.HasMoreNewsletters() {
				c.printf("Showing %d of %d, use --pages for more\n", len(s.Newsletters), s.NewsletterTotal)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to load")
	return cmd
}

func newNewslettersShowCmd(c *cli) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			n, ok := app.Snapshot().Newsletter(args[0])
			for !ok {
				more, err := app.LoadMoreNewsletters(cmd.Context())
				if err != nil {
					return err
				}
				if !more {
					return domainerrors.NotFoundf("newsletter %s not found", args[0])
				}
				n, ok = app.Snapshot().Newsletter(args[0])
			}

			render := content.Markdown
			if html {
				render = content.HTML
			}
			body, err := render(n.Content)
			if err != nil {
				return err
			}
			c.printf("# %s\nby %s\n\n%s\n", n.Title, n.Author.Username, body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Render the body as HTML")
	return cmd
}

// parseBlock reads "heading:text", "paragraph:text" or "image:url".
func parseBlock(arg string) (content.Block, error) {
	kind, value, ok := strings.Cut(arg, ":")
	if !ok {
		return content.Block{}, domainerrors.Validationf("block %q must look like kind:value", arg)
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "heading", "h":
		return content.Heading(value), nil
	case "paragraph", "p":
		return content.Paragraph(value), nil
	case "image", "img":
		return content.Image(strings.TrimSpace(value)), nil
	default:
		return content.Block{}, domainerrors.Validationf("unknown block kind %q", kind)
	}
}

func parseBlocks(args []string) ([]content.Block, error) {
	blocks := make([]content.Block, 0, len(args))
	for _, arg := range args {
		b, err := parseBlock(arg)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// newNewsletterFormCmd builds "add" or, when edit is set, "edit <id>".
// A body is either --text or a sequence of --block values. Edit keeps the
// current body and applies --remove-block and --block to it.
func newNewsletterFormCmd(c *cli, edit bool) *cobra.Command {
	var (
		in      domain.NewsletterInput
		text    string
		blocks  []string
		removed []string
		image   string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Publish a newsletter (admins)",
		Args:  cobra.NoArgs,
	}
	if edit {
		cmd.Use = "edit <id>"
		cmd.Short = "Edit a newsletter (admins)"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		app, err := c.open(cmd.Context())
		if err != nil {
			return err
		}
		parsed, err := parseBlocks(blocks)
		if err != nil {
			return err
		}

		var body content.Content
		switch {
		case edit:
			current, ok := app.Snapshot().Newsletter(args[0])
			if !ok {
				return domainerrors.NotFoundf("newsletter %s not found", args[0])
			}
			if !cmd.Flags().Changed("title") {
				in.Title = current.Title
			}
			body = current.Content
			if text != "" {
				body = content.FromText(text)
			}
			if len(parsed) > 0 || len(removed) > 0 {
				draft := content.NewDraft(body)
				for _, id := range removed {
					if !draft.Remove(id) {
						return domainerrors.NotFoundf("block %s not found", id)
					}
				}
				for _, b := range parsed {
					appendBlock(draft, b)
				}
				body = draft.Content()
			}
		case len(parsed) > 0:
			body = content.NewDraft(content.FromBlocks(parsed...)).Content()
		default:
			body = content.FromText(text)
		}
		in.Content = body

		if image != "" {
			img, closeImg, err := openAttachment(image)
			if err != nil {
				return err
			}
			defer closeImg()
			in.Image = img
		}

		var n *domain.Newsletter
		if edit {
			n, err = app.UpdateNewsletter(cmd.Context(), args[0], in)
		} else {
			n, err = app.AddNewsletter(cmd.Context(), in)
		}
		if err != nil {
			return err
		}
		c.printf("Saved newsletter %s (%s)\n", n.Title, n.ID)
		return nil
	}

	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "Newsletter title")
	f.StringVar(&text, "text", "", "Plain text body")
	f.StringArrayVar(&blocks, "block", nil, "Body block as heading:text, paragraph:text or image:url (repeatable)")
	f.StringVar(&image, "image", "", "Path to a cover image")
	cmd.MarkFlagsMutuallyExclusive("text", "block")
	if edit {
		f.StringArrayVar(&removed, "remove-block", nil, "Id of a block to remove (repeatable)")
	}
	return cmd
}

func appendBlock(d *content.Draft, b content.Block) {
	switch b.Kind {
	case content.KindHeading:
		d.AppendHeading(b.Text)
	case content.KindImage:
		d.AppendImage(b.URL)
	default:
		d.AppendParagraph(b.Text)
	}
}

func newNewslettersDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a newsletter (admins)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.DeleteNewsletter(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printf("Deleted newsletter %s\n", args[0])
			return nil
		},
	}
}
