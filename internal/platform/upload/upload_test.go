// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/upload"
)

// pngHeader is the 8-byte PNG signature followed by an IHDR chunk start.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// fileHeader builds a parsed multipart file header holding content.
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/", body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, request.ParseMultipartForm(1<<20))

	return request.MultipartForm.File[field][0]
}

func TestStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := upload.NewStore(dir, "/uploads/")
	require.NoError(t, err)

	// 1. PNG is stored with a random name
	url, err := store.Save(context.Background(), fileHeader(t, "issueImage", "pothole.png", pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	// 2. Served back by the handler
	recorder := httptest.NewRecorder()
	store.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	// 3. Text disguised as an image is refused
	_, err = store.Save(context.Background(), fileHeader(t, "issueImage", "fake.png", []byte("hello world")))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestStore_SaveAllRollsBack(t *testing.T) {
	dir := t.TempDir()
	store, err := upload.NewStore(dir, "/uploads")
	require.NoError(t, err)

	_, err = store.SaveAll(context.Background(), []*multipart.FileHeader{
		fileHeader(t, "lostfoundImage", "a.png", pngHeader),
		fileHeader(t, "lostfoundImage", "b.txt", []byte("not an image")),
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
