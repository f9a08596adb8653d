package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/yourname/healthtrack/internal"
)

// FileStore keeps every key in memory and persists the whole map to a single
// JSON file on each write. Writes complete before the call returns.
type FileStore struct {
	path   string
	data   map[string]string
	mu     sync.RWMutex
	logger internal.Logger
}

func NewFileStore(path string, logger internal.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		data:   make(map[string]string),
		logger: logger,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var data map[string]string
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		// A corrupt store file recovers as empty: every key falls back to
		// its seed value downstream.
		s.logger.Warnf("storage: corrupt store file %s, starting empty: %v", s.path, err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStore) save() error {
	s.mu.RLock()
	data := make(map[string]string, len(s.data))
	for k, v := range s.data {
		data[k] = v
	}
	s.mu.RUnlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return atomicWriteFileJSON(s.path, data)
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	return s.save()
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return s.save()
}

func (s *FileStore) Close() error {
	return nil
}

var _ KVStore = (*FileStore)(nil)
