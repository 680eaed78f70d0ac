package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/recipebook/recipebook-client/internal/id"
)

// Draft errors.
var (
	ErrNoSuchBlock = errors.New("content: no such block")
	ErrNotText     = errors.New("content: block does not hold text")
	ErrNotPending  = errors.New("content: block is not a pending upload")
)

// Uploader stores an image with an external host and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// pendingUpload stands in for an image while its upload is in flight.
// It is never encoded; Draft.Content drops it.
type pendingUpload struct {
	id string
}

// entry is either a persisted block or a pending upload.
type entry struct {
	block   Block
	pending *pendingUpload
}

func (e entry) id() string {
	if e.pending != nil {
		return e.pending.id
	}
	return e.block.ID
}

// Item is a read-only view of one editor row.
type Item struct {
	ID      string
	Pending bool
	Block   Block // zero when Pending
}

// Draft is the editable body of a newsletter. Safe for concurrent use so
// uploads can complete while the author keeps typing.
type Draft struct {
	mu      sync.Mutex
	entries []entry
}

// NewDraft seeds a draft from stored content. Flat text becomes a single
// paragraph; empty content becomes one empty paragraph.
func NewDraft(c Content) *Draft {
	d := &Draft{}
	switch {
	case c.IsBlocks() && len(c.Blocks) > 0:
		for _, b := range c.Blocks {
			if b.ID == "" {
				b.ID = id.MustGenerate(id.PrefixBlock)
			}
			d.entries = append(d.entries, entry{block: b})
		}
	default:
		d.AppendParagraph(c.Text)
	}
	return d
}

// AppendHeading adds a heading and returns its id.
func (d *Draft) AppendHeading(text string) string {
	return d.appendBlock(Heading(text))
}

// AppendParagraph adds a paragraph and returns its id.
func (d *Draft) AppendParagraph(text string) string {
	return d.appendBlock(Paragraph(text))
}

// AppendImage adds an already-hosted image and returns its id.
func (d *Draft) AppendImage(url string) string {
	return d.appendBlock(Image(url))
}

func (d *Draft) appendBlock(b Block) string {
	b.ID = id.MustGenerate(id.PrefixBlock)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, entry{block: b})
	return b.ID
}

// SetText replaces the text of a heading or paragraph.
func (d *Draft) SetText(blockID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.index(blockID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchBlock, blockID)
	}
	e := &d.entries[i]
	if e.pending != nil || e.block.Kind == KindImage {
		return fmt.Errorf("%w: %s", ErrNotText, blockID)
	}
	e.block.Text = text
	return nil
}

// Remove deletes a block or placeholder. Reports whether anything was removed.
func (d *Draft) Remove(blockID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.index(blockID)
	if i < 0 {
		return false
	}
	d.entries = slices.Delete(d.entries, i, i+1)
	return true
}

// BeginUpload appends a placeholder and returns its id.
func (d *Draft) BeginUpload() string {
	p := &pendingUpload{id: id.MustGenerate(id.PrefixPending)}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, entry{pending: p})
	return p.id
}

// CompleteUpload turns a placeholder into an image block in place.
func (d *Draft) CompleteUpload(placeholderID, url string) error {
	img := Image(url)
	if err := img.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.index(placeholderID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchBlock, placeholderID)
	}
	if d.entries[i].pending == nil {
		return fmt.Errorf("%w: %s", ErrNotPending, placeholderID)
	}
	img.ID = placeholderID
	d.entries[i] = entry{block: img}
	return nil
}

// FailUpload drops a placeholder whose upload did not succeed.
func (d *Draft) FailUpload(placeholderID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i := d.index(placeholderID); i >= 0 && d.entries[i].pending != nil {
		d.entries = slices.Delete(d.entries, i, i+1)
	}
}

// Upload runs the whole placeholder lifecycle for one image and returns the
// id of the resulting image block.
func (d *Draft) Upload(ctx context.Context, up Uploader, filename string, r io.Reader) (string, error) {
	placeholder := d.BeginUpload()

	url, err := up.UploadImage(ctx, filename, r)
	if err != nil {
		d.FailUpload(placeholder)
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if err := d.CompleteUpload(placeholder, url); err != nil {
		d.FailUpload(placeholder)
		return "", err
	}
	return placeholder, nil
}

// Pending returns the number of uploads still in flight.
func (d *Draft) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, e := range d.entries {
		if e.pending != nil {
			n++
		}
	}
	return n
}

// Items returns the editor rows in order.
func (d *Draft) Items() []Item {
	d.mu.Lock()
	defer d.mu.Unlock()

	items := make([]Item, 0, len(d.entries))
	for _, e := range d.entries {
		if e.pending != nil {
			items = append(items, Item{ID: e.pending.id, Pending: true})
			continue
		}
		items = append(items, Item{ID: e.block.ID, Block: e.block})
	}
	return items
}

// Content returns the persistable body. Placeholders are left out.
func (d *Draft) Content() Content {
	d.mu.Lock()
	defer d.mu.Unlock()

	blocks := make([]Block, 0, len(d.entries))
	for _, e := range d.entries {
		if e.pending == nil {
			blocks = append(blocks, e.block)
		}
	}
	return Content{Blocks: blocks}
}

// index must be called with d.mu held.
func (d *Draft) index(blockID string) int {
	return slices.IndexFunc(d.entries, func(e entry) bool { return e.id() == blockID })
}
