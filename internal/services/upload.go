package services

import (
	"io"
	"path/filepath"
	"strings"
)

// Upload is an image file received from a form
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// validateImage checks that file is present and carries image content.
// missing is the message shown when no file was selected.
func validateImage(file *Upload, missing string) error {
	if file == nil || file.Body == nil || file.Size == 0 {
		return invalid(missing)
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return invalid("Please select an image file")
	}
	return nil
}

// extension picks the object key extension from the content type, then the filename
func (u *Upload) extension() string {
	if ext, ok := imageExtensions[u.ContentType]; ok {
		return ext
	}
	return strings.ToLower(filepath.Ext(u.Filename))
}
