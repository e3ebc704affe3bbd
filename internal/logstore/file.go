package logstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/plexsphere/logsync/internal/fsutil"
)

const (
	storeDirPerm  = 0o700
	storeFilePerm = 0o600
)

// FileStore keeps entries as a JSON array in dir/name. Every mutation
// rewrites the file atomically while holding an advisory lock on
// dir/name.lock, so producers in other processes never see a torn file.
type FileStore[E any] struct {
	dir  string
	name string

	mu sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir, creating dir if needed.
func NewFileStore[E any](dir, name string) (*FileStore[E], error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("logstore: invalid file name %q", name)
	}
	if err := os.MkdirAll(dir, storeDirPerm); err != nil {
		return nil, fmt.Errorf("logstore: create dir %s: %w", dir, err)
	}
	return &FileStore[E]{dir: dir, name: name}, nil
}

// Path returns the path of the backing file.
func (s *FileStore[E]) Path() string {
	return filepath.Join(s.dir, s.name)
}

// Append adds entries to the tail of the store.
func (s *FileStore[E]) Append(_ context.Context, entries ...E) error {
	return s.update(func(cur []E) ([]E, error) {
		return append(cur, entries...), nil
	})
}

// ListPending returns all entries, oldest first.
func (s *FileStore[E]) ListPending(_ context.Context) ([]E, error) {
	var entries []E
	err := s.locked(func() error {
		var err error
		entries, err = s.load()
		return err
	})
	return entries, err
}

// RemoveOldest drops the head entry.
func (s *FileStore[E]) RemoveOldest(_ context.Context) error {
	return s.update(func(cur []E) ([]E, error) {
		if len(cur) == 0 {
			return nil, ErrEmpty
		}
		return cur[1:], nil
	})
}

// Count returns the number of pending entries.
func (s *FileStore[E]) Count(ctx context.Context) (int, error) {
	entries, err := s.ListPending(ctx)
	return len(entries), err
}

func (s *FileStore[E]) update(fn func([]E) ([]E, error)) error {
	return s.locked(func() error {
		cur, err := s.load()
		if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		if next == nil {
			next = []E{}
		}
		if err := fsutil.WriteJSONAtomic(s.dir, s.name, next, storeFilePerm); err != nil {
			return fmt.Errorf("logstore: write %s: %w", s.Path(), err)
		}
		return nil
	})
}

// locked runs fn while holding both the in-process mutex and the file lock.
func (s *FileStore[E]) locked(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := lockFile(s.Path() + ".lock")
	if err != nil {
		return fmt.Errorf("logstore: lock %s: %w", s.Path(), err)
	}
	defer unlock()

	return fn()
}

func (s *FileStore[E]) load() ([]E, error) {
	var entries []E
	if _, err := fsutil.ReadJSON(s.Path(), &entries); err != nil {
		return nil, fmt.Errorf("logstore: %w", err)
	}
	return entries, nil
}
