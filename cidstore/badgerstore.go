// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cidstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/luxfi/plog/cid"
)

// BadgerStore is a Store backed by an embedded Badger database. Entries are
// content-addressed and never rewritten in place, which matches Badger's
// write-once, read-many LSM workload well.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (creating if necessary) a Badger database at dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cidstore: open badger at %q: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

var _ Store = (*BadgerStore)(nil)

// Put implements Store.
func (b *BadgerStore) Put(_ context.Context, c cid.CID, val []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(c.Bytes(), val)
	})
}

// Get implements Store.
func (b *BadgerStore) Get(_ context.Context, c cid.CID) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.Bytes())
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = make([]byte, len(val))
			copy(out, val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cidstore: get: %w", err)
	}
	return out, nil
}

// Has implements Store.
func (b *BadgerStore) Has(_ context.Context, c cid.CID) (bool, error) {
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(c.Bytes())
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cidstore: has: %w", err)
	}
	return true, nil
}

// Close implements Store.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}
