package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"contract-backend/internal/shared/storage/object"
)

func TestListMissingDirIsEmpty(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "does-not-exist"))
	keys, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestPutCreatesDirAndOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saved")
	store := New(dir)
	ctx := context.Background()

	if _, err := store.Put(ctx, "a.json", "application/json", strings.NewReader("first")); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	n, err := store.Put(ctx, "a.json", "application/json", strings.NewReader("2nd"))
	if err != nil {
		t.Fatalf("Put second: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 bytes written, got %d", n)
	}
	if _, err := store.Put(ctx, "b.json", "application/json", strings.NewReader("b")); err != nil {
		t.Fatalf("Put b: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	rc, err := store.Open(ctx, "a.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "2nd" {
		t.Fatalf("expected overwritten body, got %q", body)
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a.json" || keys[1] != "b.json" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestOpenMissing(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Open(context.Background(), "missing.json")
	if !errors.Is(err, object.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"", "..", "../x", `a\b`, "a/b"} {
		if _, err := store.Put(context.Background(), key, "", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
