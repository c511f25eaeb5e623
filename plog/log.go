// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package plog ties the core validation packages to a concrete
// content-addressed backing store: an ordered view of one provenance
// log's accepted entries, and a lazy resolver for walking between a
// fork-first child and the parent plog it forked from.
package plog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/cidstore"
	"github.com/luxfi/plog/entry"
	"github.com/luxfi/plog/internal/logging"
)

// Log is an ordered, in-memory view of a single plog's accepted entries:
// a VLAD, the foot-to-head sequence of entry CIDs, and the cidstore.Store
// the canonical encodings live in. Log itself never runs validation; it
// is the thing a caller builds up by appending entries that
// validator.Validate has already accepted.
type Log struct {
	vlad     cid.VLAD
	store    cidstore.Store
	hashCode cid.Code
	cids     []cid.CID

	logger *zap.Logger
}

// Option configures a Log at construction.
type Option func(*Log)

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option { return func(lg *Log) { lg.logger = logging.OrNop(l) } }

// New opens an empty Log identified by vlad, backed by store, computing
// CIDs with hashCode.
func New(vlad cid.VLAD, store cidstore.Store, hashCode cid.Code, opts ...Option) *Log {
	l := &Log{vlad: vlad, store: store, hashCode: hashCode, logger: logging.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Restore reopens a Log whose entries already live in store under the
// given CIDs, foot-to-head, the way a CLI or service process rebuilds a
// Log handle from a small persisted index without re-walking the store.
// It does not verify that the CIDs decode or chain correctly; callers
// that need that guarantee should run Iterate and feed the result back
// through validator.Validate.
func Restore(vlad cid.VLAD, store cidstore.Store, hashCode cid.Code, cids []cid.CID, opts ...Option) *Log {
	l := New(vlad, store, hashCode, opts...)
	l.cids = append(l.cids, cids...)
	return l
}

// VLAD returns the log's stable identifier.
func (l *Log) VLAD() cid.VLAD { return l.vlad }

// Len reports the number of accepted entries.
func (l *Log) Len() int { return len(l.cids) }

// Append persists e's canonical encoding to the backing store and records
// it as the new head. The caller is responsible for having already run
// e through validator.Validate; Append does not re-validate.
func (l *Log) Append(ctx context.Context, e *entry.Entry) (cid.CID, error) {
	b, err := entry.Encode(e)
	if err != nil {
		return cid.CID{}, fmt.Errorf("plog: encode entry: %w", err)
	}
	c, err := cid.Sum(l.hashCode, b)
	if err != nil {
		return cid.CID{}, fmt.Errorf("plog: hash entry: %w", err)
	}
	if err := l.store.Put(ctx, c, b); err != nil {
		l.logger.Error("append: store put failed", zap.Error(err))
		return cid.CID{}, fmt.Errorf("plog: persist entry: %w", err)
	}
	l.cids = append(l.cids, c)
	l.logger.Debug("entry appended", zap.Uint64("seqno", e.Seqno), zap.String("cid", c.String()))
	return c, nil
}

// Head returns the most recently appended entry, or nil if the log is
// empty.
func (l *Log) Head(ctx context.Context) (*entry.Entry, error) {
	if len(l.cids) == 0 {
		return nil, nil
	}
	return l.fetch(ctx, l.cids[len(l.cids)-1])
}

// HeadCID returns the CID of the most recently appended entry, or the
// zero CID if the log is empty.
func (l *Log) HeadCID() cid.CID {
	if len(l.cids) == 0 {
		return cid.CID{}
	}
	return l.cids[len(l.cids)-1]
}

// At returns the entry at the given seqno, assuming seqnos are dense and
// start at zero (true for any log built purely through Append).
func (l *Log) At(ctx context.Context, seqno uint64) (*entry.Entry, error) {
	if seqno >= uint64(len(l.cids)) {
		return nil, fmt.Errorf("plog: seqno %d out of range (len %d)", seqno, len(l.cids))
	}
	return l.fetch(ctx, l.cids[seqno])
}

// Iterate returns every accepted entry foot-to-head (genesis first), the
// order validator.Validate and kvstore.Replay expect priorEntries in.
func (l *Log) Iterate(ctx context.Context) ([]*entry.Entry, error) {
	out := make([]*entry.Entry, len(l.cids))
	for i, c := range l.cids {
		e, err := l.fetch(ctx, c)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// IterateReverse returns every accepted entry head-to-foot (most recent
// first), the natural order for a human inspecting log history.
func (l *Log) IterateReverse(ctx context.Context) ([]*entry.Entry, error) {
	fwd, err := l.Iterate(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entry.Entry, len(fwd))
	for i, e := range fwd {
		out[len(fwd)-1-i] = e
	}
	return out, nil
}

// Fork returns the entry at atSeqno, the parent entry a child plog's
// fork-first genesis must set Prev to (§4.7: "the lock set is the
// parent entry's locks"). The caller builds the child's genesis entry
// from the returned entry's CID and Locks.
func (l *Log) Fork(ctx context.Context, atSeqno uint64) (*entry.Entry, error) {
	return l.At(ctx, atSeqno)
}

func (l *Log) fetch(ctx context.Context, c cid.CID) (*entry.Entry, error) {
	b, err := l.store.Get(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("plog: fetch %s: %w", c, err)
	}
	e, err := entry.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("plog: decode %s: %w", c, err)
	}
	return e, nil
}
