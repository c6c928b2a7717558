package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperr "sshTunnelManager/internal/error"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

// Store reads and writes History as JSON. Writes are atomic and guarded by
// both an in-process mutex and a file lock next to the history file.
type Store struct {
	mu      sync.Mutex
	path    string
	lock    *flock.Flock
	lastRev uint64
	logger  zerolog.Logger
}

func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}
}

func (s *Store) Path() string { return s.path }

// Load reads the history file. A missing file yields an empty history.
func (s *Store) Load() (History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return New(), apperr.Persistence("failed to create history directory", err)
	}
	if err := s.lock.Lock(); err != nil {
		return New(), apperr.Persistence("failed to lock history", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	return s.loadUnlocked()
}

// Save writes h unconditionally.
func (s *Store) Save(h History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(h)
}

// Persist writes h only when rev is newer than every revision written so far.
// Snapshots taken earlier but completing later are dropped.
func (s *Store) Persist(rev uint64, h History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rev <= s.lastRev {
		s.logger.Debug().Uint64("rev", rev).Uint64("last", s.lastRev).Msg("Skipping stale history snapshot")
		return nil
	}
	if err := s.saveLocked(h); err != nil {
		return err
	}
	s.lastRev = rev
	return nil
}

func (s *Store) saveLocked(h History) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return apperr.Persistence("failed to create history directory", err)
	}
	if err := s.lock.Lock(); err != nil {
		return apperr.Persistence("failed to lock history", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	return s.saveUnlocked(h)
}

func (s *Store) loadUnlocked() (History, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return New(), apperr.Persistence("failed to read history", err)
	}

	var h History
	if err := json.Unmarshal(b, &h); err != nil {
		return New(), apperr.Persistence("failed to parse history", err)
	}
	if h.Hosts == nil {
		h.Hosts = make(map[string]HostHistory)
	}
	return h, nil
}

func (s *Store) saveUnlocked(h History) error {
	if h.Hosts == nil {
		h.Hosts = make(map[string]HostHistory)
	}
	b, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return apperr.Persistence("failed to encode history", err)
	}
	b = append(b, '\n')

	if err := atomicWriteFile(s.path, b, 0o600); err != nil {
		return apperr.Persistence("failed to write history", err)
	}
	s.logger.Debug().Str("path", s.path).Int("hosts", len(h.Hosts)).Msg("History saved")
	return nil
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()

	defer func() { _ = os.Remove(tmp) }()

	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
