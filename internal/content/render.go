package content

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlTagPattern detects flat-text bodies written by the web editor.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|img)[\s>/]`)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
)

// containsHTML reports whether s looks like HTML markup.
func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// Markdown renders the body as markdown. Flat text that contains HTML is
// converted; other flat text is returned as-is.
func Markdown(c Content) (string, error) {
	if !c.IsBlocks() {
		if !containsHTML(c.Text) {
			return c.Text, nil
		}
		out, err := htmltomarkdown.ConvertString(c.Text)
		if err != nil {
			return "", fmt.Errorf("convert html body: %w", err)
		}
		return strings.TrimSpace(out), nil
	}

	parts := make([]string, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		switch b.Kind {
		case KindHeading:
			if t := strings.TrimSpace(b.Text); t != "" {
				parts = append(parts, "## "+t)
			}
		case KindParagraph:
			if t := strings.TrimSpace(b.Text); t != "" {
				parts = append(parts, t)
			}
		case KindImage:
			parts = append(parts, "![]("+b.URL+")")
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// HTML renders the body to HTML through markdown.
func HTML(c Content) (string, error) {
	src, err := Markdown(c)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
