// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kvstore

import (
	"github.com/luxfi/plog/entry"
)

// Replay folds entries, in foot-to-head order, into a fresh Store. Within a
// single entry, ops are applied left-to-right, so a later op on the same
// key-path overrides an earlier one in that same entry. Replay is pure: it
// never mutates its input and is restartable from the foot at any time,
// since it holds no state beyond the store it returns.
func Replay(entries []*entry.Entry) *Store {
	s := New()
	ApplyInto(s, entries)
	return s
}

// ApplyInto folds entries into an existing store, in place. Used to extend
// a store already populated up to some seqno without replaying from the
// foot again.
func ApplyInto(s *Store, entries []*entry.Entry) {
	for _, e := range entries {
		for _, op := range e.Ops {
			applyOp(s, op)
		}
	}
}

func applyOp(s *Store, op entry.Op) {
	switch op.Kind {
	case entry.OpUpdate:
		s.Set(op.Key, op.Value)
	case entry.OpDelete:
		s.Delete(op.Key)
	case entry.OpNoop:
		// no change
	}
}
