package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps all entries in one JSON document. Writes go to a temp file that
// is renamed over the live one, so a crash leaves either the old or the new
// document on disk.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("storage: file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return &File{path: path}, nil
}

func (f *File) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return "", err
	}
	value, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *File) SetMany(ctx context.Context, entries map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		data = map[string]string{}
	}
	for k, v := range entries {
		data[k] = v
	}
	return f.write(data)
}

func (f *File) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		// An unreadable document holds nothing worth keeping.
		return f.write(map[string]string{})
	}
	changed := false
	for _, key := range keys {
		if _, ok := data[key]; ok {
			delete(data, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.write(data)
}

func (f *File) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("storage: corrupt document %s: %w", f.path, err)
	}
	return data, nil
}

func (f *File) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".storage-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}
