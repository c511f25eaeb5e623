// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cidstore

import (
	"context"
	"sync"

	"github.com/luxfi/plog/cid"
)

// MemStore is a map-backed Store, safe for concurrent use, for tests and
// light deployments that don't need persistence across restarts.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore constructs an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

var _ Store = (*MemStore)(nil)

// Put implements Store.
func (m *MemStore) Put(_ context.Context, c cid.CID, b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(c.Bytes())] = cp
	return nil
}

// Get implements Store.
func (m *MemStore) Get(_ context.Context, c cid.CID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.data[string(c.Bytes())]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

// Has implements Store.
func (m *MemStore) Has(_ context.Context, c cid.CID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[string(c.Bytes())]
	return ok, nil
}

// Close implements Store. MemStore holds no resources to release.
func (m *MemStore) Close() error { return nil }
