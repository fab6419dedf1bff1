// Package storage holds the object-store adapters used for project media.
package storage

import (
	"context"
	"io"
	"strings"
)

// ProgressFunc receives the number of bytes sent so far and the total (0 when unknown).
type ProgressFunc func(sent, total int64)

// ObjectStore uploads and deletes blobs addressed by a slash separated path.
type ObjectStore interface {
	// Upload stores r under path and returns the public URL of the object.
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error)
	// Delete removes path. Deleting an absent object is not an error.
	Delete(ctx context.Context, path string) error
}

type progressReader struct {
	r        io.Reader
	total    int64
	sent     int64
	progress ProgressFunc
}

func withProgress(r io.Reader, total int64, progress ProgressFunc) io.Reader {
	if progress == nil {
		return r
	}
	return &progressReader{r: r, total: total, progress: progress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.progress(p.sent, p.total)
	}
	return n, err
}

// publicURL joins base and path with exactly one slash.
func publicURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
