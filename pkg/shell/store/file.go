package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"gopkg.in/yaml.v3"
)

// File is a Store persisted as a YAML mapping. Every write rewrites the
// file through a temporary file and rename.
type File struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFile loads the YAML file at path, creating its directory if needed.
// A missing file is an empty store.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't create directory for %s", path),
			"Check that the parent directory is writable.")
	}

	f := &File{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return f, nil
	case err != nil:
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't read %s", path), "")
	}

	if err := yaml.Unmarshal(raw, &f.data); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("%s is not a valid store file", path),
			"Delete the file to start with an empty store.")
	}
	if f.data == nil {
		f.data = make(map[string]string)
	}
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	f.data[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.flush()
}

func (f *File) Close() error { return nil }

// flush writes the mapping atomically. Caller holds f.mu.
func (f *File) flush() error {
	raw, err := yaml.Marshal(f.data)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "Couldn't encode store", "")
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't write %s", tmp), "")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't replace %s", f.path), "")
	}
	return nil
}
