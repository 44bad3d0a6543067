package test

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

// MultipartFile builds a multipart request body containing a single
// file field with the given content.
//
// The body and a map with the HTTP request headers are returned.
func MultipartFile(t *testing.T, name string, content []byte) (*bytes.Buffer, map[string]string) {
	body := new(bytes.Buffer)

	mw := multipart.NewWriter(body)
	w, err := mw.CreateFormFile("file", name)
	if err != nil {
		assert.FailNow(t, err.Error())
	}

	if _, err := w.Write(content); err != nil {
		assert.FailNow(t, err.Error())
	}

	if err := mw.Close(); err != nil {
		assert.FailNow(t, err.Error())
	}

	return body, map[string]string{"Content-Type": mw.FormDataContentType()}
}
