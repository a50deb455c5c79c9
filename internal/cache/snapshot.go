package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Snapshot format changes.
const snapshotSchemaVersion uint16 = 1

// Snapshot is the persisted summary of one whole-program analysis. Only the
// program's own facts are stored; fragment overlays are never persisted.
type Snapshot struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Program content hash the snapshot was computed from
	Program [32]byte

	// File paths that fed the analysis
	Files []string

	// node ID -> type ID table of the base binding context
	ExprTypes map[uint32]uint32

	// Diagnostics count at analysis time (errors only)
	Errors uint32
}

// SnapshotStore keeps snapshots on disk keyed by program hash.
// Thread-safe for concurrent access.
type SnapshotStore struct {
	mu  sync.RWMutex
	dir string
}

// OpenSnapshotStore initializes and returns a store at the standard cache
// location.
func OpenSnapshotStore(app string) (*SnapshotStore, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SnapshotStore{dir: dir}, nil
}

// OpenSnapshotStoreAt uses an explicit directory. Used by tests and the
// --cache-dir flag.
func OpenSnapshotStoreAt(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SnapshotStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *SnapshotStore) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

func (s *SnapshotStore) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(s.dir, "programs", hexKey+".mp")
}

// Put serializes and writes a snapshot, replacing any previous one
// atomically.
func (s *SnapshotStore) Put(key [32]byte, snap *Snapshot) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.Schema = snapshotSchemaVersion
	p := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			fmt.Printf("failed to remove temp file: %v", rmErr)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a snapshot. Returns false (without error) when absent or when
// the schema version does not match.
func (s *SnapshotStore) Get(key [32]byte, out *Snapshot) (bool, error) {
	if s == nil {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != snapshotSchemaVersion {
		return false, nil
	}
	return true, nil
}

// Clean removes all stored snapshots.
func (s *SnapshotStore) Clean() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(filepath.Join(s.dir, "programs"))
}
