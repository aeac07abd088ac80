package server

import (
	"sync"
	"time"

	"github.com/netscope/netscope/internal/domain"
)

// Store holds the latest scan results for the API handlers. One scan
// updates all derived views atomically so a reader never sees a
// topology from one scan paired with conflicts from another.
type Store struct {
	mu        sync.RWMutex
	snapshot  *domain.Snapshot
	report    *domain.Report
	topology  *domain.Topology
	tree      []domain.TreeNetwork
	scannedAt time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Update replaces the stored scan results
func (s *Store) Update(snap *domain.Snapshot, report *domain.Report, topo *domain.Topology, tree []domain.TreeNetwork) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.report = report
	s.topology = topo
	s.tree = tree
	s.scannedAt = time.Now().UTC()
}

// Snapshot returns the latest snapshot, nil before the first scan
func (s *Store) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Report returns the latest conflict report, nil before the first scan
func (s *Store) Report() *domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Topology returns the latest topology graph, nil before the first scan
func (s *Store) Topology() *domain.Topology {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topology
}

// Tree returns the latest network tree
func (s *Store) Tree() []domain.TreeNetwork {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// ScannedAt returns when the store was last updated
func (s *Store) ScannedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scannedAt
}

// Empty reports whether the store has received a scan yet
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot == nil
}
