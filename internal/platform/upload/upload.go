// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload stores user submitted images on local disk.

Files get random names and are served back under a public base URL. Only image
content is accepted, judged by sniffing the file header rather than trusting
the client supplied content type.
*/
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/pkg/uuid"
)

// MaxFileBytes caps a single stored image.
const MaxFileBytes = 5 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store is a local-disk image store.
type Store struct {
	dir     string
	baseURL string
}

// NewStore creates the upload directory if needed.
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create %s: %w", dir, err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save stores one uploaded image and returns its public URL.
func (store *Store) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxFileBytes {
		return "", apperr.ValidationError(fmt.Sprintf("File %s exceeds %d MB", header.Filename, MaxFileBytes>>20))
	}

	file, err := header.Open()
	if err != nil {
		return "", apperr.ValidationError("Unreadable file upload")
	}
	defer file.Close()

	sniff := make([]byte, 512)
	read, err := io.ReadFull(file, sniff)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", apperr.ValidationError("Unreadable file upload")
	}

	extension, ok := extensions[http.DetectContentType(sniff[:read])]
	if !ok {
		return "", apperr.ValidationError("Only image files are allowed")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", apperr.Internal(fmt.Errorf("upload: rewind: %w", err))
	}

	name := uuid.New() + extension
	destination, err := os.OpenFile(filepath.Join(store.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("upload: create file: %w", err))
	}

	if _, err := io.Copy(destination, io.LimitReader(file, MaxFileBytes)); err != nil {
		destination.Close()
		_ = os.Remove(destination.Name())
		return "", apperr.Internal(fmt.Errorf("upload: write file: %w", err))
	}
	if err := destination.Close(); err != nil {
		return "", apperr.Internal(fmt.Errorf("upload: close file: %w", err))
	}

	return store.baseURL + "/" + name, nil
}

// SaveAll stores every image in order. Files written before a failure are removed.
func (store *Store) SaveAll(ctx context.Context, headers []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(headers))
	for _, header := range headers {
		url, err := store.Save(ctx, header)
		if err != nil {
			store.Remove(urls...)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Remove deletes stored files by URL. URLs outside the base URL are ignored.
func (store *Store) Remove(urls ...string) {
	for _, url := range urls {
		name, found := strings.CutPrefix(url, store.baseURL+"/")
		if !found || name == "" {
			continue
		}
		_ = os.Remove(filepath.Join(store.dir, filepath.Base(name)))
	}
}

// Handler serves stored files. Mount it under the base URL path.
func (store *Store) Handler() http.Handler {
	return http.StripPrefix(store.baseURL, http.FileServer(http.Dir(store.dir)))
}
