package upload

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore keeps pending uploads in a directory, one content file and
// one JSON metadata sidecar per upload. Metadata lives on disk rather
// than in memory, so pending files survive a restart.
type DiskStore struct {
	dir     string
	maxSize int64
}

type diskMeta struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	SavedAt     time.Time `json:"saved_at"`
}

const metaSuffix = ".meta"

// NewDiskStore creates the directory if needed. maxSize of zero means
// no per-file limit.
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, maxSize: maxSize}, nil
}

// Save implements Store.
func (s *DiskStore) Save(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := newID()
	path := s.contentPath(id)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}

	src := r
	if s.maxSize > 0 {
		// One extra byte so an over-limit body is detected, not truncated.
		src = io.LimitReader(r, s.maxSize+1)
	}
	written, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxSize > 0 && written > s.maxSize {
		err = ErrTooLarge
	}
	if err == nil {
		err = s.writeMeta(id, diskMeta{
			Name:        name,
			ContentType: contentType,
			Size:        written,
			SavedAt:     time.Now(),
		})
	}
	if err != nil {
		os.Remove(path)
		os.Remove(s.metaPath(id))
		return "", err
	}
	return id, nil
}

// Claim implements Store. The returned File's content reader deletes
// both files on Close, which makes the claim consume the id.
func (s *DiskStore) Claim(ctx context.Context, id string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, ErrNotFound
	}

	meta, err := s.readMeta(id)
	if err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(s.contentPath(id))
	if err != nil {
		return nil, ErrNotFound
	}

	return &File{
		ID:          id,
		Name:        meta.Name,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		Content: &removeOnClose{
			File:  f,
			paths: []string{s.contentPath(id), s.metaPath(id)},
		},
	}, nil
}

// Cleanup implements Store. Content files age by their metadata's
// SavedAt; stray files with no sidecar age by modification time.
func (s *DiskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || strings.HasSuffix(entry.Name(), metaSuffix) {
			continue
		}
		id := entry.Name()

		expired := false
		if meta, err := s.readMeta(id); err == nil {
			expired = meta.SavedAt.Before(cutoff)
		} else if info, err := entry.Info(); err == nil {
			expired = info.ModTime().Before(cutoff)
		}
		if expired {
			os.Remove(s.contentPath(id))
			os.Remove(s.metaPath(id))
		}
	}
	return nil
}

func (s *DiskStore) contentPath(id string) string { return filepath.Join(s.dir, id) }
func (s *DiskStore) metaPath(id string) string    { return filepath.Join(s.dir, id+metaSuffix) }

func (s *DiskStore) writeMeta(id string, meta diskMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(id), data, 0o600)
}

func (s *DiskStore) readMeta(id string) (diskMeta, error) {
	var meta diskMeta
	data, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// validID guards Claim against ids that could escape the directory.
func validID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}

type removeOnClose struct {
	*os.File
	paths []string
}

func (r *removeOnClose) Close() error {
	err := r.File.Close()
	for _, p := range r.paths {
		os.Remove(p)
	}
	return err
}
