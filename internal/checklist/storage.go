package checklist

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// Storage is the key-value persistence port. The reconciler never depends
// on a concrete mechanism; session-scoped and durable implementations are
// chosen by authentication state.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// SessionStorage lives only as long as the process: guest data is
// intentionally ephemeral.
type SessionStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{data: make(map[string]string)}
}

func (s *SessionStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *SessionStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *SessionStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// FileStorage persists the whole map to one JSON file on every write.
type FileStorage struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

func OpenFileStorage(path string) (*FileStorage, error) {
	fs := &FileStorage{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &fs.data); err != nil {
		// corrupt file, start fresh
		fs.data = make(map[string]string)
	}
	return fs, nil
}

func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.flush()
}

func (f *FileStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return f.flush()
}

// flush writes the map; callers must hold f.mu.
func (f *FileStorage) flush() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

// MigrateLegacy moves a key from durable to session storage once, clearing
// the durable copy so stale guest data cannot resurrect across sessions.
// An existing session value always wins.
func MigrateLegacy(session, durable Storage, key string) error {
	if _, ok := session.Get(key); ok {
		return nil
	}
	v, ok := durable.Get(key)
	if !ok {
		return nil
	}
	if err := session.Set(key, v); err != nil {
		return err
	}
	return durable.Delete(key)
}
