package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	payload := []byte("%PDF-1.4 fake resume payload")
	key, size, mimeType, err := store.Save(context.Background(), "session-1", "resume.pdf", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("size = %d, want %d", size, len(payload))
	}
	if mimeType == "" {
		t.Fatal("expected a sniffed mime type")
	}
	if strings.Contains(key, "session-1") {
		t.Fatal("storage key should not expose the raw session id")
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("round-tripped payload differs")
	}
}

func TestSaveWithKeyAndTraversalRejected(t *testing.T) {
	store := New(t.TempDir())

	n, err := store.SaveWithKey(context.Background(), "abc/resume.pdf.extracted.txt", "text/plain", strings.NewReader("text"))
	if err != nil {
		t.Fatalf("save with key: %v", err)
	}
	if n != 4 {
		t.Fatalf("written = %d", n)
	}

	if _, err := store.SaveWithKey(context.Background(), "../escape.txt", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
	if _, err := store.Open(context.Background(), "../escape.txt"); err == nil {
		t.Fatal("expected traversal open to be rejected")
	}
}

func TestSaveSameNameTwiceKeepsBoth(t *testing.T) {
	store := New(t.TempDir())

	key1, _, _, err := store.Save(context.Background(), "session-1", "resume.pdf", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("save 1: %v", err)
	}
	key2, _, _, err := store.Save(context.Background(), "session-1", "resume.pdf", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("save 2: %v", err)
	}
	if key1 == key2 {
		t.Fatal("expected distinct storage keys for repeated uploads")
	}
}
