// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package entry implements the provenance-log entry data model and its
// canonical binary codec.
package entry

import (
	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/value"
)

// Version identifies the entry wire format.
type Version uint64

// V1 is the only entry format this build accepts (SPEC_FULL.md §3.1).
const V1 Version = 1

// OpKind discriminates the three mutation op shapes.
type OpKind uint8

const (
	// OpUpdate sets store[Key] := Value. Key must be a leaf path.
	OpUpdate OpKind = iota
	// OpDelete removes Key from the store (idempotent). Key must be a
	// leaf path.
	OpDelete
	// OpNoop has no store effect; it exists to widen the ops context
	// branch computed by keypath.LongestCommonBranch.
	OpNoop
)

func (k OpKind) String() string {
	switch k {
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpNoop:
		return "noop"
	default:
		return "unknown"
	}
}

// Op is one mutation within an entry's ordered op list.
type Op struct {
	Kind  OpKind
	Key   keypath.Path
	Value value.Value
}

// Update constructs an update op.
func Update(k keypath.Path, v value.Value) Op { return Op{Kind: OpUpdate, Key: k, Value: v} }

// Delete constructs a delete op.
func Delete(k keypath.Path) Op { return Op{Kind: OpDelete, Key: k} }

// Noop constructs a noop op.
func Noop(k keypath.Path) Op { return Op{Kind: OpNoop, Key: k} }

// Lock pairs a branch-scoped key-path with the puzzle script that must be
// satisfied by a future entry's unlock script to append under that branch.
type Lock struct {
	Branch keypath.Path
	Script []byte
}

// Entry is one hash-linked, script-gated step in a provenance log.
type Entry struct {
	Version Version
	VLAD    cid.VLAD
	Prev    cid.CID // zero value (⊥) only for seqno==0
	Lipmaa  cid.CID // zero value (⊥) for seqno in {0,1}
	Seqno   uint64
	Ops     []Op
	Locks   []Lock
	Unlock  []byte
	Proof   []byte
}

// IsGenesis reports whether e is a log's first entry (seqno 0).
func (e *Entry) IsGenesis() bool { return e.Seqno == 0 }

// IsFork reports whether e is a fork-first entry: a genesis entry whose
// Prev points into a different (parent) plog rather than being ⊥.
func (e *Entry) IsFork() bool { return e.IsGenesis() && !e.Prev.IsZero() }

// OpPaths returns the key-path of every op in e, in order, used to compute
// the ops context branch (keypath.LongestCommonBranch).
func (e *Entry) OpPaths() []keypath.Path {
	paths := make([]keypath.Path, len(e.Ops))
	for i, op := range e.Ops {
		paths[i] = op.Key
	}
	return paths
}

// CID computes the content identifier of e's full canonical encoding
// (proof intact) under the given hash code.
func (e *Entry) CID(code cid.Code) (cid.CID, error) {
	b, err := Encode(e)
	if err != nil {
		return cid.CID{}, err
	}
	return cid.Sum(code, b)
}
