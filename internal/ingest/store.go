// Package ingest brings contract PDFs into the system, from API uploads and
// from local directories.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/helpdesk-core/renewals-tracker/constants"
)

// StoredFile describes one upload after it has been written to disk.
type StoredFile struct {
	Filename    string
	StoragePath string
	Size        int64
	Hash        []byte
}

func (s StoredFile) HashHex() string { return hex.EncodeToString(s.Hash) }

// FileStore persists uploads under a single directory, hashed while written.
// Files are named by a fresh UUID so original filenames never collide or
// escape into paths; the original name is kept as metadata only.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Save streams r to disk, computing the SHA-256 along the way.
func (fs *FileStore) Save(filename string, r io.Reader) (StoredFile, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if !constants.IsAllowedExt(ext) {
		return StoredFile{}, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	dest := filepath.Join(fs.dir, uuid.NewString()+"."+ext)
	f, err := os.Create(dest)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create %s: %w", dest, err)
	}

	h := sha256.New()
	n, err := io.Copy(f, io.TeeReader(r, h))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rmErr := os.Remove(dest); rmErr != nil {
			fs.logger.Warn("failed to remove partial upload", "path", dest, "error", rmErr)
		}
		return StoredFile{}, fmt.Errorf("write upload: %w", err)
	}

	out := StoredFile{
		Filename:    filepath.Base(filename),
		StoragePath: dest,
		Size:        n,
		Hash:        h.Sum(nil),
	}
	fs.logger.Info("upload stored",
		"filename", out.Filename, "path", dest, "size", n, "sha256", out.HashHex())
	return out, nil
}

// SaveLocal copies an existing local file into the store. Used by the batch
// ingester so processed files survive the source directory being cleaned up.
func (fs *FileStore) SaveLocal(path string) (StoredFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return StoredFile{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fs.logger.Warn("failed to close source file", "path", path, "error", cerr)
		}
	}()
	return fs.Save(filepath.Base(path), f)
}
