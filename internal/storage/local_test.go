package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLocalSaveOpenDelete(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	content := []byte("fake png bytes")
	key, err := local.Save(ctx, "avatar.png", bytes.NewReader(content), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if key != "avatar.png" {
		t.Errorf("key = %q, want avatar.png", key)
	}

	r, contentType, err := local.Open(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if contentType != "image/png" {
		t.Errorf("content type = %q, want image/png", contentType)
	}
	got, _ := io.ReadAll(r)
	if !bytes.Equal(got, content) {
		t.Error("stored bytes do not match original")
	}

	if err := local.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, _, err := local.Open(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("open after delete: err = %v, want ErrNotFound", err)
	}
}

func TestLocalOpenMissing(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := local.Open(context.Background(), "nope.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := local.Delete(context.Background(), "nope.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete err = %v, want ErrNotFound", err)
	}
}

func TestLocalUnknownExtensionFallsBack(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := local.Save(ctx, "blob.weirdext", strings.NewReader("data"), ""); err != nil {
		t.Fatal(err)
	}
	_, contentType, err := local.Open(ctx, "blob.weirdext")
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "application/octet-stream" {
		t.Errorf("content type = %q, want application/octet-stream", contentType)
	}
}

func TestSanitizeKey(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":              "photo.jpg",
		"../../etc/passwd":       "passwd",
		"/etc/shadow":            "shadow",
		"..\\..\\windows\\cmd":   "cmd",
		"nested/dir/profile.png": "profile.png",
	}
	for in, want := range cases {
		if got := sanitizeKey(in); got != want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalURL(t *testing.T) {
	local := &Local{Dir: t.TempDir()}
	url, err := local.URL(context.Background(), "avatar.png")
	if err != nil {
		t.Fatal(err)
	}
	if url != "/api/images/avatar.png" {
		t.Errorf("url = %q", url)
	}
}
