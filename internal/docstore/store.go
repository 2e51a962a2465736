// Package docstore reads and writes JSON documents under a data root.
//
// Reads are fail-open: a missing or corrupt document yields the caller's
// default. Writes are fail-closed and replace the target atomically through a
// temporary file in the same directory, so a crash mid-write leaves either the
// old or the new document and never touches any other document.
package docstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/google/renameio/v2"
)

// DataDir is the sub-directory holding the monthly transaction documents.
const DataDir = "data"

// ErrWrite wraps every failure to persist a document.
var ErrWrite = errors.New("write document")

type Store struct {
	root   string
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(root string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		root:   root,
		logger: logger.With("component", "docstore"),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Root returns the data root directory.
func (s *Store) Root() string { return s.root }

// Path resolves a document name relative to the root.
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// EnsureDirs creates the root and the month directory. It is idempotent.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(filepath.Join(s.root, DataDir), 0o755); err != nil {
		return fmt.Errorf("creating data directories: %w", err)
	}

	return nil
}

// Lock acquires the per-document locks for names and returns the release func.
// Locks are taken in sorted order, so callers locking overlapping sets cannot deadlock.
func (s *Store) Lock(names ...string) (unlock func()) {
	paths := make([]string, 0, len(names))
	for _, n := range names {
		paths = append(paths, filepath.Clean(s.Path(n)))
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)

	held := make([]*sync.Mutex, 0, len(paths))

	for _, p := range paths {
		m := s.lockFor(p)
		m.Lock()

		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (s *Store) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.locks[path]
	if !ok {
		m = &sync.Mutex{}
		s.locks[path] = m
	}

	return m
}

// ReadRaw returns the bytes of a document.
func (s *Store) ReadRaw(name string) ([]byte, error) {
	if err := s.EnsureDirs(); err != nil {
		return nil, err
	}

	return os.ReadFile(s.Path(name))
}

// Exists reports whether the named document is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Archive renames name to name+suffix. An existing archive is never replaced:
// the new one gets a UTC timestamp, and a counter if that is taken too.
func (s *Store) Archive(name, suffix string) (string, error) {
	target := name + suffix

	if s.Exists(target) {
		stamped := target + "-" + time.Now().UTC().Format("20060102T150405")
		target = stamped

		for n := 2; s.Exists(target); n++ {
			target = fmt.Sprintf("%s-%d", stamped, n)
		}
	}

	if err := os.Rename(s.Path(name), s.Path(target)); err != nil {
		return "", fmt.Errorf("archiving %s: %w", name, err)
	}

	return target, nil
}

// List returns the names of the files in dir whose base name matches pattern,
// in lexical order. A missing directory yields an empty list.
func (s *Store) List(dir string, pattern *regexp.Regexp) ([]string, error) {
	if err := s.EnsureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.Path(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() || !pattern.MatchString(e.Name()) {
			continue
		}

		names = append(names, e.Name())
	}

	return names, nil
}

// Read loads the named document into T, returning def when the document is
// missing, unreadable or malformed.
func Read[T any](s *Store, name string, def T) T {
	return Load(s, name, def).Value
}

// Load is Read with the outcome exposed.
func Load[T any](s *Store, name string, def T) Result[T] {
	raw, err := s.ReadRaw(name)
	if err != nil {
		s.logger.Debug("document unavailable, using default", "document", name, "error", err)
		return Result[T]{Value: def, Outcome: OutcomeAbsent, Err: err}
	}

	res := Parse(raw, def)
	if res.Outcome == OutcomeCorrupt {
		s.logger.Warn("document is corrupt, using default", "document", name, "error", res.Err)
	}

	return res
}

// Write serialises v with two-space indentation and atomically replaces the named document.
func Write[T any](s *Store, name string, v T) error {
	if err := s.EnsureDirs(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, name, err)
	}

	raw, err := marshal(v)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, name, err)
	}

	if err := writeAtomic(s.Path(name), raw); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, name, err)
	}

	return nil
}

// Update performs a read-modify-write of the named document while holding its lock.
// When fn returns an error nothing is written.
func Update[T any](s *Store, name string, def T, fn func(T) (T, error)) (T, error) {
	unlock := s.Lock(name)
	defer unlock()

	next, err := fn(Read(s, name, def))
	if err != nil {
		var zero T
		return zero, err
	}

	if err := Write(s, name, next); err != nil {
		var zero T
		return zero, err
	}

	return next, nil
}

func writeAtomic(path string, data []byte) error {
	if err := renameio.WriteFile(path, data, 0o644, renameio.WithTempDir(filepath.Dir(path))); err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}

	return nil
}
