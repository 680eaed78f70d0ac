package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// imageField is the multipart part name for every uploaded picture.
const imageField = "image"

type field struct {
	name, value string
}

// form is a multipart/form-data body.
type form struct {
	fields []field
	image  *domain.Attachment
}

func newForm() *form {
	return &form{}
}

func (f *form) add(name, value string) *form {
	f.fields = append(f.fields, field{name, value})
	return f
}

// addAll repeats name once per value, e.g. "ingredients[]".
func (f *form) addAll(name string, values []string) *form {
	for _, v := range values {
		f.add(name, v)
	}
	return f
}

func (f *form) attach(img *domain.Attachment) *form {
	if img != nil && img.Data != nil {
		f.image = img
	}
	return f
}

func (f *form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", err
		}
	}

	if f.image != nil {
		filename := f.image.Filename
		if filename == "" {
			filename = "photo.jpg"
		}
		contentType := f.image.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, imageField, filename))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.image.Data); err != nil {
			return nil, "", fmt.Errorf("copy image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
