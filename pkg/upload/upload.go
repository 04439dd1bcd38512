// Package upload persists multipart file uploads past the request that
// carried them. Handlers bind *multipart.FileHeader parameters and hand
// them to a Store; the returned id travels through a form field or
// signal until a later handler claims the file for real processing.
//
// DiskStore ships in-package. An S3-backed store builds with the "s3"
// tag for apps that keep pending uploads off the local disk.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"time"
)

// ErrNotFound reports an id with no pending file, including files a
// sweep already removed.
var ErrNotFound = errors.New("upload: file not found")

// ErrTooLarge reports a file over the store's size limit.
var ErrTooLarge = errors.New("upload: file too large")

// File is a stored upload. Close releases the content reader and, for
// claimed files, removes the stored copy.
type File struct {
	ID          string
	Name        string // client-supplied filename, informational only
	ContentType string
	Size        int64
	Content     io.ReadCloser
}

// Close closes the content reader.
func (f *File) Close() error {
	if f.Content == nil {
		return nil
	}
	return f.Content.Close()
}

// Store keeps uploads between requests. Saved files are pending until
// claimed; Claim consumes the file, so an id resolves exactly once.
type Store interface {
	// Save stores size bytes from r and returns the pending id.
	Save(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error)

	// Claim removes the pending file and returns it for reading.
	Claim(ctx context.Context, id string) (*File, error)

	// Cleanup removes pending files older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// Save stores a bound file parameter.
//
//	func Attach(ctx *lumen.Ctx, doc *multipart.FileHeader) (*html.Node, error) {
//	    id, err := upload.Save(ctx.Context(), store, doc)
//	    ...
//	}
func Save(ctx context.Context, store Store, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return store.Save(ctx, fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
}

// Sweep runs Cleanup every interval until ctx is canceled. Run it from
// main alongside the app:
//
//	go upload.Sweep(ctx, store, time.Hour, 5*time.Minute, logger)
func Sweep(ctx context.Context, store Store, maxAge, interval time.Duration, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx, maxAge); err != nil {
				log.Warn("upload sweep failed", "error", err)
			}
		}
	}
}
