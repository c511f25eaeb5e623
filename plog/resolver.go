// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plog

import (
	"context"
	"fmt"

	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/cidstore"
	"github.com/luxfi/plog/entry"
)

// Resolver is the lazy CID-based parent/child graph walker described in
// the original spec's Design Notes ("Graph of plogs"): given a
// fork-first child's Prev CID, it fetches the parent entry directly from
// a shared cidstore.Store without requiring the parent's full Log to be
// resident in memory.
type Resolver struct {
	store cidstore.Store
}

// NewResolver builds a Resolver over store, the same content-addressed
// backing store every Log in the deployment shares.
func NewResolver(store cidstore.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve fetches and decodes the entry identified by c.
func (r *Resolver) Resolve(ctx context.Context, c cid.CID) (*entry.Entry, error) {
	b, err := r.store.Get(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("plog: resolve %s: %w", c, err)
	}
	e, err := entry.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("plog: decode resolved entry %s: %w", c, err)
	}
	return e, nil
}

// ResolveParent resolves a fork-first child's Prev CID to its parent
// entry. It returns an error if child is not a fork-first genesis entry.
func (r *Resolver) ResolveParent(ctx context.Context, child *entry.Entry) (*entry.Entry, error) {
	if !child.IsFork() {
		return nil, fmt.Errorf("plog: entry at seqno %d is not a fork-first genesis entry", child.Seqno)
	}
	return r.Resolve(ctx, child.Prev)
}

// ParentChain walks from a fork-first child back through every ancestor
// fork point, returning the chain of parent entries from the immediate
// parent up to (and including) the first non-fork ancestor it reaches.
// It does not attempt to enumerate every entry of any ancestor plog —
// only the single fork-point entry each hop needs.
func (r *Resolver) ParentChain(ctx context.Context, child *entry.Entry) ([]*entry.Entry, error) {
	var chain []*entry.Entry
	cur := child
	for cur.IsFork() {
		parent, err := r.ResolveParent(ctx, cur)
		if err != nil {
			return nil, err
		}
		chain = append(chain, parent)
		cur = parent
	}
	return chain, nil
}
