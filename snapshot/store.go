// Package snapshot implements the file-backed durable snapshot store: one
// file per (componentId, snapshotId), with an in-memory index mirroring the
// filesystem so listing never touches disk.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Geekthedev/korra/domain"
)

// DefaultBaseDir is used when Store is constructed without an explicit base.
const DefaultBaseDir = "snapshots"

// Store is the concurrency-safe, file-backed snapshot store. A snapshotId is
// globally unique, so Load and Delete locate a snapshot's component the way
// the original findSnapshot scan does, via an id-to-component index, rather
// than requiring the caller to already know it.
type Store struct {
	base string

	mu        sync.RWMutex
	index     map[string][]domain.SnapshotMeta // componentId -> ordered metadata
	locations map[string]string                // snapshotId -> componentId

	writeMu sync.Map // componentId -> *sync.Mutex, serializes writes per component
}

// New constructs a Store rooted at base. If base is empty, DefaultBaseDir is
// used. The base directory is created lazily on first write.
func New(base string) *Store {
	if base == "" {
		base = DefaultBaseDir
	}
	return &Store{
		base:      base,
		index:     make(map[string][]domain.SnapshotMeta),
		locations: make(map[string]string),
	}
}

func (s *Store) componentDir(componentID string) string {
	return filepath.Join(s.base, componentID)
}

func (s *Store) snapshotPath(componentID, snapshotID string) string {
	return filepath.Join(s.componentDir(componentID), snapshotID+".snap")
}

func (s *Store) lockFor(componentID string) *sync.Mutex {
	v, _ := s.writeMu.LoadOrStore(componentID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// findComponent locates the componentId a snapshotId was created under.
func (s *Store) findComponent(snapshotID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	componentID, ok := s.locations[snapshotID]
	return componentID, ok
}

// Create writes payload under a freshly generated snapshot id and returns it.
func (s *Store) Create(componentID string, payload []byte) (string, error) {
	snapshotID := uuid.New().String()
	lock := s.lockFor(componentID)
	lock.Lock()
	defer lock.Unlock()

	dir := s.componentDir(componentID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create snapshot dir: %v", domain.ErrTransientIO, err)
	}
	path := s.snapshotPath(componentID, snapshotID)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("%w: write snapshot: %v", domain.ErrTransientIO, err)
	}

	meta := domain.SnapshotMeta{
		SnapshotID:  snapshotID,
		ComponentID: componentID,
		Timestamp:   time.Now(),
		Size:        len(payload),
	}
	s.mu.Lock()
	s.index[componentID] = append(s.index[componentID], meta)
	s.locations[snapshotID] = componentID
	s.mu.Unlock()

	return snapshotID, nil
}

// Load reads back a snapshot's payload by id alone, locating its component
// via the index.
func (s *Store) Load(snapshotID string) ([]byte, error) {
	componentID, ok := s.findComponent(snapshotID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	path := s.snapshotPath(componentID, snapshotID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: read snapshot: %v", domain.ErrTransientIO, err)
	}
	if len(data) == 0 {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

// Delete removes a snapshot file and its index entries by id alone,
// reporting whether it was present.
func (s *Store) Delete(snapshotID string) bool {
	componentID, ok := s.findComponent(snapshotID)
	if !ok {
		return false
	}

	lock := s.lockFor(componentID)
	lock.Lock()
	defer lock.Unlock()

	path := s.snapshotPath(componentID, snapshotID)
	if err := os.Remove(path); err != nil {
		return false
	}

	s.mu.Lock()
	metas := s.index[componentID]
	for i, m := range metas {
		if m.SnapshotID == snapshotID {
			s.index[componentID] = append(metas[:i], metas[i+1:]...)
			break
		}
	}
	delete(s.locations, snapshotID)
	s.mu.Unlock()
	return true
}

// List returns the snapshots recorded for componentID in insertion order.
func (s *Store) List(componentID string) []domain.SnapshotMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	metas := s.index[componentID]
	out := make([]domain.SnapshotMeta, len(metas))
	copy(out, metas)
	return out
}
