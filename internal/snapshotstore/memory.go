package snapshotstore

import (
	"context"
	"fmt"
	"sort"
	"stockalert/internal/product"
	"sync"
)

// MemoryStore is a Store that lives in process memory. Errors can be injected
// per key to simulate an unreachable backend.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[product.Key]product.Snapshot
	getErr    map[product.Key]error
	putErr    map[product.Key]error
	puts      int
}

func NewMemoryStore(initial ...product.Snapshot) *MemoryStore {
	s := &MemoryStore{
		snapshots: map[product.Key]product.Snapshot{},
		getErr:    map[product.Key]error{},
		putErr:    map[product.Key]error{},
	}
	for _, snap := range initial {
		s.snapshots[snap.Key()] = snap
	}
	return s
}

// FailGet makes every Get for key fail with err wrapped in ErrStoreUnavailable.
func (s *MemoryStore) FailGet(key product.Key, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr[key] = err
}

// FailPut makes every Put for key fail with err wrapped in ErrStoreUnavailable.
func (s *MemoryStore) FailPut(key product.Key, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putErr[key] = err
}

// Puts returns the number of successful writes.
func (s *MemoryStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func (s *MemoryStore) Get(ctx context.Context, key product.Key) (product.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.getErr[key]; ok {
		return product.Snapshot{}, false, fmt.Errorf("%w: get: %w", ErrStoreUnavailable, err)
	}
	snap, ok := s.snapshots[key]
	return snap, ok, nil
}

func (s *MemoryStore) Put(ctx context.Context, snapshot product.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.putErr[snapshot.Key()]; ok {
		return fmt.Errorf("%w: put: %w", ErrStoreUnavailable, err)
	}
	s.snapshots[snapshot.Key()] = snapshot
	s.puts++
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]product.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]product.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Store() != out[j].Store() {
			return out[i].Store().String() < out[j].Store().String()
		}
		return out[i].ProductID() < out[j].ProductID()
	})
	return out, nil
}
