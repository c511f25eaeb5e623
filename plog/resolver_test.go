// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/cidstore"
	"github.com/luxfi/plog/entry"
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/value"
)

func TestResolver_ResolveParent(t *testing.T) {
	ctx := context.Background()
	store := cidstore.NewMemStore()

	parentLog := New(cid.NewVLAD([]byte("parent-pub"), []byte("n")), store, cid.CodeBlake3)
	parentHead, err := parentLog.Append(ctx, genesisEntry(t))
	require.NoError(t, err)

	child := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.NewVLAD([]byte("child-pub"), []byte("n")),
		Seqno:   0,
		Prev:    parentHead,
		Ops:     []entry.Op{entry.Update(keypath.MustParse("/x"), value.Str("y"))},
		Locks:   []entry.Lock{{Branch: keypath.Root, Script: []byte("lock")}},
		Unlock:  []byte("unlock"),
		Proof:   []byte("sig"),
	}
	require.True(t, child.IsFork())

	r := NewResolver(store)
	parent, err := r.ResolveParent(ctx, child)
	require.NoError(t, err)
	require.Equal(t, uint64(0), parent.Seqno)
}

func TestResolver_ResolveParentRejectsNonFork(t *testing.T) {
	ctx := context.Background()
	store := cidstore.NewMemStore()
	r := NewResolver(store)
	_, err := r.ResolveParent(ctx, genesisEntry(t))
	require.Error(t, err)
}

func TestResolver_ParentChainWalksMultipleForks(t *testing.T) {
	ctx := context.Background()
	store := cidstore.NewMemStore()

	grandparentLog := New(cid.NewVLAD([]byte("gp"), []byte("n")), store, cid.CodeBlake3)
	gpHead, err := grandparentLog.Append(ctx, genesisEntry(t))
	require.NoError(t, err)

	parentGenesis := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.NewVLAD([]byte("parent"), []byte("n")),
		Seqno:   0,
		Prev:    gpHead,
		Ops:     []entry.Op{entry.Update(keypath.MustParse("/x"), value.Str("y"))},
		Locks:   []entry.Lock{{Branch: keypath.Root, Script: []byte("lock")}},
		Unlock:  []byte("unlock"),
		Proof:   []byte("sig"),
	}
	parentLog := New(cid.NewVLAD([]byte("parent"), []byte("n")), store, cid.CodeBlake3)
	parentHead, err := parentLog.Append(ctx, parentGenesis)
	require.NoError(t, err)

	child := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.NewVLAD([]byte("child"), []byte("n")),
		Seqno:   0,
		Prev:    parentHead,
		Ops:     []entry.Op{entry.Update(keypath.MustParse("/x"), value.Str("y"))},
		Locks:   []entry.Lock{{Branch: keypath.Root, Script: []byte("lock")}},
		Unlock:  []byte("unlock"),
		Proof:   []byte("sig"),
	}

	r := NewResolver(store)
	chain, err := r.ParentChain(ctx, child)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	require.Equal(t, parentGenesis.VLAD, chain[0].VLAD)
	require.Equal(t, genesisEntry(t).VLAD, chain[1].VLAD)
}
