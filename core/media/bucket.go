// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package media stores episode audio and fronts the external media processing
services (transcription and translation).
*/
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

const (
	bucketDirPermissions  = 0o750
	bucketFilePermissions = 0o640
)

var (
	ErrTooLarge    = errors.New("upload exceeds the maximum size")
	ErrInvalidBlob = errors.New("invalid blob name")
	ErrNotFound    = errors.New("blob not found")
)

// blobNameRegexp restricts blob names to what record identifiers look like.
var blobNameRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,63}$`)

// Bucket is a flat directory of uploaded audio objects.
type Bucket struct {
	dir string
}

// NewBucket creates dir if needed and returns a bucket rooted there.
func NewBucket(dir string) (*Bucket, error) {
	if err := os.MkdirAll(dir, bucketDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create media directory %s: %w", dir, err)
	}

	return &Bucket{dir: dir}, nil
}

func (b *Bucket) path(blob string) (string, error) {
	if !blobNameRegexp.MatchString(blob) {
		return "", ErrInvalidBlob
	}

	return filepath.Join(b.dir, blob), nil
}

// Save stores at most limit bytes from r as blob, replacing any previous object.
//
// The object only becomes visible once it has been completely written.
func (b *Bucket) Save(ctx context.Context, blob string, r io.Reader, limit int64) (int64, error) {
	dst, err := b.path(blob)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(b.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	// Read one byte past the limit to detect oversized uploads.
	n, err := io.Copy(tmp, io.LimitReader(contextReader{ctx: ctx, r: r}, limit+1))
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", blob, err)
	}

	if n > limit {
		return 0, ErrTooLarge
	}

	if err := tmp.Chmod(bucketFilePermissions); err != nil {
		return 0, fmt.Errorf("failed to set permissions on %s: %w", blob, err)
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", blob, err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("failed to store %s: %w", blob, err)
	}

	return n, nil
}

// Open returns the stored object and its metadata. The caller closes the file.
func (b *Bucket) Open(blob string) (*os.File, fs.FileInfo, error) {
	p, err := b.path(blob)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(p) // #nosec G304 -- name validated by blobNameRegexp
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrNotFound
	}

	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, nil, err
	}

	return f, info, nil
}

// Remove deletes blob. Removing a missing blob is not an error.
func (b *Bucket) Remove(blob string) error {
	p, err := b.path(blob)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
