// Package content models the body of a newsletter.
//
// A persisted body is either flat text or an ordered list of blocks. Blocks
// are a closed set of kinds (heading, paragraph, image). The editor works on a
// Draft, which can additionally hold pending-upload placeholders; those are a
// separate type with no JSON encoding, so they can never be read from or sent
// to the server.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a persisted block variant.
type Kind string

// Persisted block kinds.
const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindImage     Kind = "image"
)

// ErrInvalidBlock is returned when a block does not match its kind.
var ErrInvalidBlock = errors.New("content: invalid block")

// Valid reports whether k is a persisted kind.
func (k Kind) Valid() bool {
	switch k {
	case KindHeading, KindParagraph, KindImage:
		return true
	default:
		return false
	}
}

// Block is one unit of a newsletter body.
type Block struct {
	ID   string `json:"id,omitempty"`
	Kind Kind   `json:"type"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Heading returns a heading block.
func Heading(text string) Block { return Block{Kind: KindHeading, Text: text} }

// Paragraph returns a paragraph block.
func Paragraph(text string) Block { return Block{Kind: KindParagraph, Text: text} }

// Image returns an image block.
func Image(url string) Block { return Block{Kind: KindImage, URL: url} }

// Validate checks that the block's fields agree with its kind.
func (b Block) Validate() error {
	switch b.Kind {
	case KindHeading, KindParagraph:
		if b.URL != "" {
			return fmt.Errorf("%w: %s block carries a url", ErrInvalidBlock, b.Kind)
		}
	case KindImage:
		if b.URL == "" {
			return fmt.Errorf("%w: image block without url", ErrInvalidBlock)
		}
		if b.Text != "" {
			return fmt.Errorf("%w: image block carries text", ErrInvalidBlock)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidBlock, b.Kind)
	}
	return nil
}

type blockJSON Block

// MarshalJSON refuses to encode invalid blocks.
func (b Block) MarshalJSON() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(blockJSON(b))
}

// UnmarshalJSON rejects kinds that are not persisted, including "loading".
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := Block(raw).Validate(); err != nil {
		return err
	}
	*b = Block(raw)
	return nil
}

// Content is a newsletter body: flat text, or blocks when Blocks is non-nil.
type Content struct {
	Text   string
	Blocks []Block
}

// FromText returns flat-text content.
func FromText(text string) Content { return Content{Text: text} }

// FromBlocks returns block content. A nil argument still yields block content.
func FromBlocks(blocks ...Block) Content {
	out := make([]Block, len(blocks))
	copy(out, blocks)
	return Content{Blocks: out}
}

// IsBlocks reports whether the body is block-structured.
func (c Content) IsBlocks() bool { return c.Blocks != nil }

// IsEmpty reports whether the body has no visible text or images.
func (c Content) IsEmpty() bool {
	if !c.IsBlocks() {
		return strings.TrimSpace(c.Text) == ""
	}
	for _, b := range c.Blocks {
		if b.Kind == KindImage || strings.TrimSpace(b.Text) != "" {
			return false
		}
	}
	return true
}

// PlainText flattens the body for indexing and previews.
func (c Content) PlainText() string {
	if !c.IsBlocks() {
		return c.Text
	}
	parts := make([]string, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		if t := strings.TrimSpace(b.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// MarshalJSON encodes text as a JSON string and blocks as an array.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsBlocks() {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts a string, an array of blocks, or null.
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*c = Content{}
		return nil
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*c = FromText(text)
		return nil
	case trimmed[0] == '[':
		blocks := []Block{}
		if err := json.Unmarshal(trimmed, &blocks); err != nil {
			return fmt.Errorf("decode content blocks: %w", err)
		}
		*c = Content{Blocks: blocks}
		return nil
	default:
		return fmt.Errorf("%w: content must be a string or an array", ErrInvalidBlock)
	}
}

// BlocksJSON returns the encoded body for form fields: the raw text, or the
// JSON array of blocks.
func (c Content) BlocksJSON() (string, error) {
	if !c.IsBlocks() {
		return c.Text, nil
	}
	data, err := json.Marshal(c.Blocks)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
