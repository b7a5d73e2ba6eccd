package checklist

import (
	"path/filepath"
	"testing"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	fs, err := OpenFileStorage(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fs.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// reopen from disk
	fs2, err := OpenFileStorage(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok := fs2.Get("k")
	if !ok || v != "v" {
		t.Fatalf("expected v, got %q (ok=%v)", v, ok)
	}

	if err := fs2.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	fs3, err := OpenFileStorage(path)
	if err != nil {
		t.Fatalf("reopen after delete: %v", err)
	}
	if _, ok := fs3.Get("k"); ok {
		t.Error("key should be gone after delete")
	}
}

func TestOpenFileStorageMissingFile(t *testing.T) {
	fs, err := OpenFileStorage(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := fs.Get("k"); ok {
		t.Error("fresh storage should be empty")
	}
}

func TestMigrateLegacy(t *testing.T) {
	session := NewSessionStorage()
	durable := NewSessionStorage()
	durable.Set("k", "legacy")

	if err := MigrateLegacy(session, durable, "k"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if v, _ := session.Get("k"); v != "legacy" {
		t.Errorf("session: got %q", v)
	}
	if _, ok := durable.Get("k"); ok {
		t.Error("durable copy not cleared")
	}

	// second run is a no-op even with new durable data
	durable.Set("k", "stale")
	if err := MigrateLegacy(session, durable, "k"); err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	if v, _ := session.Get("k"); v != "legacy" {
		t.Errorf("session overwritten: got %q", v)
	}
}
