package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// openAttachment opens an image file for upload. The caller must call the
// returned close function once the request is done.
func openAttachment(path string) (*domain.Attachment, func(), error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") && !mtype.Is("image/gif") && !mtype.Is("image/webp") {
		return nil, nil, fmt.Errorf("%s is not an image (%s)", filepath.Base(path), mtype.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	img := &domain.Attachment{
		Filename:    filepath.Base(path),
		ContentType: mtype.String(),
		Data:        f,
	}
	return img, func() { _ = f.Close() }, nil
}
