package memory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
)

// PictureStore keeps uploads in process memory. Used when no object
// storage endpoint is configured.
type PictureStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

func NewPictureStore(baseURL string) *PictureStore {
	return &PictureStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (s *PictureStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = buf.Bytes()
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

func (s *PictureStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}
