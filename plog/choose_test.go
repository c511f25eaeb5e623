// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/plog/entry"
	"github.com/luxfi/plog/validator"
)

func TestChoosePreferred_PicksShallowestBranch(t *testing.T) {
	rootWin := Candidate{Entry: &entry.Entry{Seqno: 1}, Precedence: validator.Precedence{BranchDepth: 0, CheckCount: 0, ContextDepth: 1}}
	delegatedWin := Candidate{Entry: &entry.Entry{Seqno: 1}, Precedence: validator.Precedence{BranchDepth: 1, CheckCount: 0, ContextDepth: 1}}

	best, ranked := ChoosePreferred([]Candidate{delegatedWin, rootWin})
	require.Same(t, rootWin.Entry, best.Entry)
	require.Same(t, rootWin.Entry, ranked[0].Entry)
	require.Same(t, delegatedWin.Entry, ranked[1].Entry)
}

func TestChoosePreferred_EmptyInput(t *testing.T) {
	best, ranked := ChoosePreferred(nil)
	require.Nil(t, best)
	require.Nil(t, ranked)
}

func TestChoosePreferred_TiesKeepOriginalOrder(t *testing.T) {
	a := Candidate{Entry: &entry.Entry{Seqno: 1}, Precedence: validator.Precedence{BranchDepth: 0, CheckCount: 0, ContextDepth: 0}}
	b := Candidate{Entry: &entry.Entry{Seqno: 1}, Precedence: validator.Precedence{BranchDepth: 0, CheckCount: 0, ContextDepth: 0}}

	_, ranked := ChoosePreferred([]Candidate{a, b})
	require.Same(t, a.Entry, ranked[0].Entry)
	require.Same(t, b.Entry, ranked[1].Entry)
}
