// Package blobstore is a small S3 compatible object store for local
// development. It accepts SigV4 presigned PUTs, the same URLs the S3 signer
// produces, and serves stored objects publicly.
package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sagarc03/tasker"
)

// tmpFilePrefix names in-flight uploads. Keys with a segment carrying it are
// never served or written.
const tmpFilePrefix = ".tmp-"

// WriteResult describes a stored object.
type WriteResult struct {
	BytesWritten int64
	ETag         string
}

// Store provides file system storage operations.
type Store struct {
	root *os.Root
}

// NewStore creates a Store rooted at root.
// The root provides sandboxed file operations preventing path traversal.
func NewStore(root *os.Root) *Store {
	return &Store{root: root}
}

// Get opens an object for reading. Returns tasker.ErrNotFound if it does not exist.
func (s *Store) Get(ctx context.Context, key string) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, tasker.ErrNotFound
		}
		return nil, fmt.Errorf("open object: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat object: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, tasker.ErrNotFound
	}

	return f, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write atomically stores content under key using a temp file and rename.
// Intermediate directories are created as needed.
func (s *Store) Write(ctx context.Context, key string, content io.Reader) (WriteResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return WriteResult{}, ctxErr
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return WriteResult{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(h, t), &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return WriteResult{}, fmt.Errorf("could not copy object contents: %w", err)
	}

	if err = t.Sync(); err != nil {
		return WriteResult{}, fmt.Errorf("could not sync written object: %w", err)
	}

	if destDir := filepath.Dir(key); destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return WriteResult{}, fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	if renameErr := s.root.Rename(tmpFile, key); renameErr != nil {
		return WriteResult{}, fmt.Errorf("failed to rename object: %w", renameErr)
	}

	success = true
	return WriteResult{BytesWritten: n, ETag: hex.EncodeToString(h.Sum(nil))}, nil
}

// Delete removes an object. Returns tasker.ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.Remove(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tasker.ErrNotFound
		}
		return fmt.Errorf("could not delete object: %w", err)
	}
	return nil
}

func tmpFileName() string {
	return tmpFilePrefix + uuid.New().String()
}
