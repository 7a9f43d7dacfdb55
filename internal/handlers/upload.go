package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"instafeed/internal/services"
)

const (
	// multipartMemory is how much of a form is held in memory before spilling to disk
	multipartMemory = 8 << 20
	// formOverhead allows for the non-file fields and multipart framing
	formOverhead = 1 << 20
	sniffLen     = 512
)

var errFileTooLarge = errors.New("file too large")

// parseUpload parses the multipart form and opens the file in field. A
// missing file yields a nil upload so the service reports it. The returned
// function closes the file and removes any temporary files.
func parseUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*services.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, errFileTooLarge
		}
		return nil, nil, fmt.Errorf("failed to parse form: %w", err)
	}
	cleanup := func() { r.MultipartForm.RemoveAll() }

	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to open %s: %w", field, err)
	}
	if hdr.Size > maxBytes {
		f.Close()
		cleanup()
		return nil, nil, errFileTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		f.Close()
		cleanup()
		return nil, nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	head = head[:n]

	upload := &services.Upload{
		Filename:    hdr.Filename,
		ContentType: http.DetectContentType(head),
		Size:        hdr.Size,
		Body:        io.MultiReader(bytes.NewReader(head), f),
	}
	return upload, func() {
		f.Close()
		cleanup()
	}, nil
}

// uploadFailure maps a form parsing error to a status and message
func uploadFailure(err error, tooLarge string) (int, string) {
	if errors.Is(err, errFileTooLarge) {
		return http.StatusRequestEntityTooLarge, tooLarge
	}
	return http.StatusBadRequest, msgSomethingWrong
}
