package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/rpupo63/portfolio-backend/errs"
)

// MemoryStore keeps objects in a map. Paths listed in FailDeletes make Delete fail,
// which lets callers exercise their cleanup error paths.
type MemoryStore struct {
	mu          sync.Mutex
	baseURL     string
	objects     map[string]memoryObject
	FailDeletes map[string]error
	FailUploads error
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://objects"
	}
	return &MemoryStore{
		baseURL:     baseURL,
		objects:     make(map[string]memoryObject),
		FailDeletes: make(map[string]error),
	}
}

func (s *MemoryStore) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error) {
	s.mu.Lock()
	failure := s.FailUploads
	s.mu.Unlock()
	if failure != nil {
		return "", errs.NewUploadError(path, failure)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, withProgress(r, size, progress)); err != nil {
		return "", errs.NewUploadError(path, err)
	}
	if err := ctx.Err(); err != nil {
		return "", errs.NewUploadError(path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = memoryObject{data: buf.Bytes(), contentType: contentType}
	return publicURL(s.baseURL, path), nil
}

func (s *MemoryStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.FailDeletes[path]; ok {
		return errs.NewDeleteObjectError(path, err)
	}
	delete(s.objects, path)
	return nil
}

// Has reports whether path is stored.
func (s *MemoryStore) Has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok
}

// ContentType returns the content type recorded for path.
func (s *MemoryStore) ContentType(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[path].contentType
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
