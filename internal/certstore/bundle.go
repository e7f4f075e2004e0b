package certstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"path/filepath"
	"time"

	syserrors "github.com/princespaghetti/syscerts/internal/errors"
	"github.com/princespaghetti/syscerts/internal/trust"
)

// BundleInfo describes a bundle written by WriteBundle.
type BundleInfo struct {
	Path      string    `json:"path"`
	Generated time.Time `json:"generated"`
	SHA256    string    `json:"sha256"`
	Blocks    int       `json:"blocks"`
	Entries   int       `json:"entries"`
	Skipped   []string  `json:"skipped,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
}

// WriteBundle concatenates the CERTIFICATE blocks of entries into a single PEM
// file at dest. Path entries are read through fsys; entries that cannot be
// read or hold no CERTIFICATE block are skipped and listed in the result.
// The write is atomic and serialized with other writers of dest by a file lock
// kept in lockDir, so nothing but the bundle is left beside dest.
func WriteBundle(ctx context.Context, fsys FileSystem, dest, lockDir string, entries []trust.Entry) (*BundleInfo, error) {
	if err := fsys.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, &syserrors.OpError{
			Op:   "create bundle directory",
			Path: filepath.Dir(dest),
			Err:  err,
		}
	}

	if err := fsys.MkdirAll(lockDir, 0755); err != nil {
		return nil, &syserrors.OpError{
			Op:   "create lock directory",
			Path: lockDir,
			Err:  err,
		}
	}

	lock := NewFileLock(bundleLockPath(lockDir, dest))
	if err := lock.Lock(ctx); err != nil {
		return nil, &syserrors.OpError{
			Op:   "lock bundle",
			Path: dest,
			Err:  err,
		}
	}
	defer func() { _ = lock.Unlock() }()

	info := &BundleInfo{Path: dest}
	var combined []byte

	for _, e := range entries {
		// Check context periodically
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data := e.PEM
		label := "inline"
		if e.IsPath() {
			label = e.Path
			var err error
			data, err = fsys.ReadFile(e.Path)
			if err != nil {
				info.Skipped = append(info.Skipped, label)
				continue
			}
		}

		blocks := certificateBlocks(data)
		if len(blocks) == 0 {
			info.Skipped = append(info.Skipped, label)
			continue
		}

		for _, b := range blocks {
			combined = append(combined, pem.EncodeToMemory(b)...)
		}
		info.Blocks += len(blocks)
		info.Entries++
	}

	if len(combined) == 0 {
		return nil, &syserrors.OpError{
			Op:   "write bundle",
			Path: dest,
			Err:  syserrors.ErrEmptyBundle,
		}
	}

	// Write to temp file
	tempPath := dest + ".tmp"
	if err := fsys.WriteFile(tempPath, combined, 0644); err != nil {
		return nil, &syserrors.OpError{
			Op:   "write temp bundle",
			Path: tempPath,
			Err:  err,
		}
	}

	// Atomic rename (os.Rename is atomic on POSIX systems)
	if err := fsys.Rename(tempPath, dest); err != nil {
		_ = fsys.Remove(tempPath)
		return nil, &syserrors.OpError{
			Op:   "rename bundle",
			Path: dest,
			Err:  err,
		}
	}

	info.Generated = time.Now()
	info.SHA256 = computeSHA256(combined)
	info.SizeBytes = int64(len(combined))

	return info, nil
}

// bundleLockPath names the lock for dest inside lockDir. Writers of the same
// bundle path resolve to the same lock.
func bundleLockPath(lockDir, dest string) string {
	if abs, err := filepath.Abs(dest); err == nil {
		dest = abs
	}
	sum := sha256.Sum256([]byte(dest))
	return filepath.Join(lockDir, "bundle-"+hex.EncodeToString(sum[:8]))
}

// certificateBlocks returns the CERTIFICATE blocks in data, without headers.
// Other block types (keys, CRLs) are dropped.
func certificateBlocks(data []byte) []*pem.Block {
	var blocks []*pem.Block
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			blocks = append(blocks, &pem.Block{Type: block.Type, Bytes: block.Bytes})
		}
	}
	return blocks
}

// computeSHA256 computes the SHA256 hash of the given data.
func computeSHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// BundleSummary is a one-line description of info for CLI output.
func BundleSummary(info *BundleInfo) string {
	return fmt.Sprintf("%d certificates from %d entries (%d skipped)", info.Blocks, info.Entries, len(info.Skipped))
}
