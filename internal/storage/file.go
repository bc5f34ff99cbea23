package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend persists every record in a single JSON document under dataDir.
// Commits rewrite the document through a temp file and rename, so a commit is all or nothing.
type FileBackend struct {
	mu      sync.Mutex
	data    map[string]string
	dataDir string
}

func NewFileBackend(dataDir string) (*FileBackend, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	f := &FileBackend{
		data:    make(map[string]string),
		dataDir: dataDir,
	}
	if err := f.ensureDir(); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	f.load()
	return f, nil
}

func (f *FileBackend) path() string {
	return filepath.Join(f.dataDir, "ledger.json")
}

func (f *FileBackend) ensureDir() error {
	return os.MkdirAll(f.dataDir, 0755)
}

// load reads the document. A missing or unreadable document starts empty.
func (f *FileBackend) load() {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path())
	if err != nil {
		return
	}
	var records map[string]string
	if err := json.Unmarshal(data, &records); err != nil {
		return
	}
	for k, v := range records {
		f.data[k] = v
	}
}

// saveLocked writes the document. Caller must hold f.mu.
func saveLocked(path string, records map[string]string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (f *FileBackend) Commit(_ context.Context, entries ...Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := make(map[string]string, len(f.data)+len(entries))
	for k, v := range f.data {
		next[k] = v
	}
	for _, e := range entries {
		next[e.Key] = string(e.Value)
	}
	if err := saveLocked(f.path(), next); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	f.data = next
	return nil
}

func (f *FileBackend) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := make(map[string]string, len(f.data))
	for k, v := range f.data {
		next[k] = v
	}
	for _, k := range keys {
		delete(next, k)
	}
	if err := saveLocked(f.path(), next); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	f.data = next
	return nil
}

func (f *FileBackend) Close() error { return nil }
