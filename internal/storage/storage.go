// Package storage stores attachment files on the local filesystem,
// addressed by opaque storage keys.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("the storage key is invalid")

// Store is a directory holding attachment files.
type Store struct {
	dir string
}

// New creates the storage directory if necessary and returns the store.
func New(dir string) (*Store, error) {
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Save writes the file under the given key and returns the number of
// bytes written.
func (s *Store) Save(key string, r io.Reader) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating attachment file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("writing attachment file: %w", err)
	}

	return written, nil
}

// Open opens the file stored under the key for reading.
func (s *Store) Open(key string) (*os.File, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	return os.Open(path)
}

// Delete removes the file stored under the key. Deleting a key that
// does not exist is not an error.
func (s *Store) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

// path resolves a key to a file path. Keys must be plain file names,
// anything that could escape the storage directory is rejected.
func (s *Store) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return "", ErrInvalidKey
	}

	return filepath.Join(s.dir, key), nil
}
