// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kvstore implements the virtual key-value store that a plog's
// entries replay into: a plain mapping from key-path to value, mutated only
// by the update/delete/noop ops carried in accepted entries.
package kvstore

import (
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/value"
)

// Store is the materialised view of a plog at some point in its history.
// The zero value is an empty store, ready to use.
type Store struct {
	entries map[keypath.Path]value.Value
}

// New returns an empty store.
func New() *Store {
	return &Store{entries: make(map[keypath.Path]value.Value)}
}

// Get returns the value stored at k and whether it is present.
func (s *Store) Get(k keypath.Path) (value.Value, bool) {
	if s.entries == nil {
		return value.Value{}, false
	}
	v, ok := s.entries[k]
	return v, ok
}

// Set assigns v to k, overwriting any previous value.
func (s *Store) Set(k keypath.Path, v value.Value) {
	if s.entries == nil {
		s.entries = make(map[keypath.Path]value.Value)
	}
	s.entries[k] = v
}

// Delete removes k from the store. Idempotent: deleting an absent key is a
// no-op.
func (s *Store) Delete(k keypath.Path) {
	if s.entries == nil {
		return
	}
	delete(s.entries, k)
}

// Len reports the number of keys currently populated.
func (s *Store) Len() int {
	return len(s.entries)
}

// Clone returns a deep, independent copy of s.
func (s *Store) Clone() *Store {
	c := New()
	for k, v := range s.entries {
		c.entries[k] = v
	}
	return c
}

// Keys returns the set of populated key-paths in unspecified order.
func (s *Store) Keys() []keypath.Path {
	out := make([]keypath.Path, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}
	return out
}

// Equal reports whether s and other hold exactly the same key/value pairs.
func (s *Store) Equal(other *Store) bool {
	if s.Len() != other.Len() {
		return false
	}
	for k, v := range s.entries {
		ov, ok := other.entries[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
