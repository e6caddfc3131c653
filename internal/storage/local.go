package storage

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Local stores objects as files under a fixed uploads directory and serves
// them back through the image endpoint.
type Local struct {
	Dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{Dir: dir}, nil
}

func (l *Local) Save(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	key = sanitizeKey(key)
	dst, err := os.Create(filepath.Join(l.Dir, key))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return key, nil
}

func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	key = sanitizeKey(key)
	file, err := os.Open(filepath.Join(l.Dir, key))
	if os.IsNotExist(err) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return file, contentType, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	key = sanitizeKey(key)
	err := os.Remove(filepath.Join(l.Dir, key))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

func (l *Local) URL(_ context.Context, key string) (string, error) {
	return "/api/images/" + sanitizeKey(key), nil
}

// sanitizeKey strips any path components so a key can never escape the
// uploads directory.
func sanitizeKey(key string) string {
	key = strings.ReplaceAll(key, "\\", "/")
	return filepath.Base(key)
}
