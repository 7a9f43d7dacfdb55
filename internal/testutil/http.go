package testutil

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// JPEG is the smallest content http.DetectContentType reports as image/jpeg
var JPEG = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00fake-jpeg-body")

// FilePart is a file field of a multipart form
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// MultipartRequest builds a POST with the given form fields and optional file
func MultipartRequest(t *testing.T, target string, fields map[string]string, file *FilePart) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("WriteField(%s) error = %v", name, err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		fw.Write(file.Content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("multipart Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
