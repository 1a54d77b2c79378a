package ingest

import (
	"bytes"
	"crypto/sha256"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestFileStoreSaveHashesAndRenames(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	body := []byte("%PDF-1.4 contract body")
	stored, err := store.Save("Vendor Contract (final).pdf", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if stored.Filename != "Vendor Contract (final).pdf" {
		t.Errorf("filename = %q", stored.Filename)
	}
	if stored.Size != int64(len(body)) {
		t.Errorf("size = %d, want %d", stored.Size, len(body))
	}
	want := sha256.Sum256(body)
	if !bytes.Equal(stored.Hash, want[:]) {
		t.Errorf("hash mismatch")
	}
	// Stored under a generated name, not the user-supplied one.
	if filepath.Base(stored.StoragePath) == stored.Filename {
		t.Errorf("storage path reuses original filename: %s", stored.StoragePath)
	}
	data, err := os.ReadFile(stored.StoragePath)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(data, body) {
		t.Error("stored bytes differ from input")
	}
}

func TestFileStoreRejectsUnsupportedExtension(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Save("notes.txt", bytes.NewReader([]byte("x"))); err == nil {
		t.Fatal("txt upload must be rejected")
	}
	if _, err := store.Save("noext", bytes.NewReader([]byte("x"))); err == nil {
		t.Fatal("extensionless upload must be rejected")
	}
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	mustWrite := func(rel string) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	mustWrite("a.pdf")
	mustWrite("sub/b.PDF")
	mustWrite("sub/notes.txt")
	mustWrite(".hidden/c.pdf")
	mustWrite(".secret.pdf")

	files, stats, err := ScanDirectory(root)
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if stats.Matched != 2 || len(files) != 2 {
		t.Fatalf("matched = %d, files = %d, want 2", stats.Matched, len(files))
	}
	for _, f := range files {
		if f.Err != "" {
			t.Errorf("unexpected error for %s: %s", f.Path, f.Err)
		}
	}
}

func TestScanDirectoryRequiresRoot(t *testing.T) {
	if _, _, err := ScanDirectory("  "); err == nil {
		t.Fatal("blank root must error")
	}
}
