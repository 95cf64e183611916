// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package ranger

import (
	"sync"
	"time"
)

// Store holds the current policy snapshot per service and the resolved
// service-definition ids. Writers publish whole snapshots by replacing the
// map entry under the lock; readers get a reference to an immutable
// snapshot that stays valid for the duration of one evaluation.
type Store struct {
	mu          sync.RWMutex
	snapshots   map[string]*Snapshot
	serviceDefs map[string]int
}

func NewStore() *Store {
	return &Store{
		snapshots:   make(map[string]*Snapshot),
		serviceDefs: make(map[string]int),
	}
}

// GetPolicies returns the current snapshot for a service, or nil when no
// refresh has succeeded yet.
func (s *Store) GetPolicies(serviceName string) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[serviceName]
}

// PutPolicies publishes a new snapshot for a service. The policy slice is
// owned by the snapshot from here on and must not be mutated by the caller.
func (s *Store) PutPolicies(serviceName string, policies []Policy, serviceDefID *int) {
	snap := &Snapshot{
		ServiceName:  serviceName,
		ServiceDefID: serviceDefID,
		Policies:     policies,
		LoadedAt:     time.Now().UTC(),
	}

	s.mu.Lock()
	s.snapshots[serviceName] = snap
	s.mu.Unlock()
}

// GetServiceDefID returns the cached id for a service-definition name.
func (s *Store) GetServiceDefID(serviceDefName string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.serviceDefs[serviceDefName]
	return id, ok
}

// PutServiceDefID caches the id for a service-definition name.
func (s *Store) PutServiceDefID(serviceDefName string, id int) {
	s.mu.Lock()
	s.serviceDefs[serviceDefName] = id
	s.mu.Unlock()
}

// StoreStats summarizes the store contents for the stats endpoint.
type StoreStats struct {
	Services    int        `json:"services"`
	Policies    int        `json:"policies"`
	ServiceDefs int        `json:"servicedefs"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
}

// Stats reports the number of services, total policies and the most recent
// snapshot publication time.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := StoreStats{
		Services:    len(s.snapshots),
		ServiceDefs: len(s.serviceDefs),
	}
	for _, snap := range s.snapshots {
		st.Policies += len(snap.Policies)
		if st.LoadedAt == nil || snap.LoadedAt.After(*st.LoadedAt) {
			t := snap.LoadedAt
			st.LoadedAt = &t
		}
	}
	return st
}
