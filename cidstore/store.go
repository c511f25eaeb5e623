// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cidstore defines the content-addressed persistence boundary
// plog.Log is built on: a CID-keyed byte-blob store, kept deliberately
// thin so the core validation packages never import a storage engine
// directly.
package cidstore

import (
	"context"
	"errors"

	"github.com/luxfi/plog/cid"
)

// ErrNotFound is returned by Get when no value is stored under the given
// CID.
var ErrNotFound = errors.New("cidstore: not found")

// Store persists canonical entry encodings keyed by their CID. Callers are
// responsible for hashing; Store never recomputes or verifies a CID
// against the bytes it is given.
type Store interface {
	// Put writes b under c, overwriting any existing value.
	Put(ctx context.Context, c cid.CID, b []byte) error
	// Get returns the bytes stored under c, or ErrNotFound.
	Get(ctx context.Context, c cid.CID) ([]byte, error)
	// Has reports whether c is present without reading its value.
	Has(ctx context.Context, c cid.CID) (bool, error)
	// Close releases any resources the store holds open.
	Close() error
}
