// Package cas implements build info storage.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.BuildInfoStore using one flat JSON file per project root.
// The file lives at <root>/.pave/store/buildinfo.json.
type Store struct {
	mu     sync.Mutex
	caches map[string]map[string]domain.BuildInfo
}

// NewStore creates a new BuildInfoStore.
func NewStore() *Store {
	return &Store{
		caches: make(map[string]map[string]domain.BuildInfo),
	}
}

func storeFile(root string) string {
	return filepath.Join(root, domain.DefaultStorePath(), domain.BuildInfoFileName)
}

// cache returns the entries for root, loading them on first use. The caller holds mu.
func (s *Store) cache(root string) (map[string]domain.BuildInfo, error) {
	root = filepath.Clean(root)
	if c, ok := s.caches[root]; ok {
		return c, nil
	}

	path := storeFile(root)
	c := make(map[string]domain.BuildInfo)

	//nolint:gosec // G304: path is derived from the project root
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	case len(data) > 0:
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", path)
		}
	}

	s.caches[root] = c
	return c, nil
}

func (s *Store) save(root string, c map[string]domain.BuildInfo) error {
	path := storeFile(root)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", path)
	}

	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}

	return nil
}

// Get retrieves the build info for a given target name.
// It returns nil, nil when the target was never built.
func (s *Store) Get(root, targetName string) (*domain.BuildInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cache(root)
	if err != nil {
		return nil, err
	}

	info, ok := c[targetName]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the build info and writes the file through.
func (s *Store) Put(root string, info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cache(root)
	if err != nil {
		return err
	}
	c[info.TargetName] = info

	return s.save(filepath.Clean(root), c)
}

// Forget drops the cached entries for root so the next access rereads the file.
// Callers use it after deleting the store directory.
func (s *Store) Forget(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.caches, filepath.Clean(root))
}
