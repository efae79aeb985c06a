package blob

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_SaveAndDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() failed: %v", err)
	}

	ref, err := store.Save(bytes.NewReader([]byte("receipt bytes")), ".png")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Errorf("Save() ref = %q, want .png suffix", ref)
	}
	if ref != filepath.Base(ref) {
		t.Errorf("Save() ref %q contains path separators", ref)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), ref))
	if err != nil {
		t.Fatalf("stored blob not readable: %v", err)
	}
	if string(data) != "receipt bytes" {
		t.Errorf("stored blob = %q, want %q", data, "receipt bytes")
	}

	if err := store.Delete(ref); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), ref)); !os.IsNotExist(err) {
		t.Error("Delete() left the blob on disk")
	}
}

func TestDiskStore_DeleteMissing(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() failed: %v", err)
	}

	if err := store.Delete("does-not-exist.png"); err == nil {
		t.Error("Delete() of missing blob expected error, got nil")
	}
}

func TestDiskStore_DeleteRejectsTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() failed: %v", err)
	}

	for _, ref := range []string{"", "../escape.png", "a/b.png", "..", "/etc/passwd"} {
		if err := store.Delete(ref); err == nil {
			t.Errorf("Delete(%q) expected error, got nil", ref)
		}
	}
}

func TestDiskStore_UniqueRefs(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() failed: %v", err)
	}

	ref1, err := store.Save(bytes.NewReader([]byte("a")), ".jpg")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	ref2, err := store.Save(bytes.NewReader([]byte("a")), ".jpg")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if ref1 == ref2 {
		t.Error("Save() produced identical references for two blobs")
	}
}
