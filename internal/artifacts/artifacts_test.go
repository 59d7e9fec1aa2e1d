package artifacts

import (
	"context"
	"log/slog"
	"testing"
)

func TestFileStore_PutGetExistsDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	hash, err := store.Put(ctx, []byte("briefing bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if hash[:7] != "sha256:" {
		t.Fatalf("expected sha256: prefix, got %s", hash)
	}

	ok, err := store.Exists(ctx, hash)
	if err != nil || !ok {
		t.Fatalf("expected Exists true, got ok=%v err=%v", ok, err)
	}

	got, err := store.Get(ctx, hash)
	if err != nil || string(got) != "briefing bytes" {
		t.Fatalf("Get mismatch: %q err=%v", got, err)
	}

	if err := store.Delete(ctx, hash); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err = store.Exists(ctx, hash)
	if err != nil || ok {
		t.Fatalf("expected Exists false after delete, got ok=%v err=%v", ok, err)
	}
}

func TestFileStore_PutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	h1, err := store.Put(ctx, []byte("same content"))
	if err != nil {
		t.Fatalf("first Put: %v", err)
	}
	h2, err := store.Put(ctx, []byte("same content"))
	if err != nil {
		t.Fatalf("second Put: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected identical content to hash identically: %s vs %s", h1, h2)
	}
}

func TestFileStore_RejectsMalformedHash(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Get(ctx, "not-a-hash"); err == nil {
		t.Fatal("expected an error for a malformed hash")
	}
}

func TestMirror_PushIsNoOpOnNilStore(t *testing.T) {
	m := NewMirror(nil, slog.Default())
	m.Push(context.Background(), "LATEST-BRIEFING.md", []byte("x"))
}

func TestMirror_PushSucceedsAgainstFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	m := NewMirror(store, slog.Default())
	m.Push(context.Background(), "LATEST-RESULTS.json", []byte(`{"scan_date":"2026-02-09"}`))

	_, hash := hashOf([]byte(`{"scan_date":"2026-02-09"}`))
	got, err := store.Get(context.Background(), hash)
	if err != nil || string(got) != `{"scan_date":"2026-02-09"}` {
		t.Fatalf("expected Push to have stored the artifact: %q err=%v", got, err)
	}
	ok, err := store.Exists(context.Background(), hash)
	if err != nil || !ok {
		t.Fatalf("expected the mirrored artifact to already exist: ok=%v err=%v", ok, err)
	}
}
