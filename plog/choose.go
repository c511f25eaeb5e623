// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plog

import (
	"github.com/luxfi/plog/entry"
	"github.com/luxfi/plog/validator"
)

// Candidate pairs a competing proposal for the same seqno with the
// precedence tuple validator.Validate computed for it.
type Candidate struct {
	Entry      *entry.Entry
	Precedence validator.Precedence
}

// ChoosePreferred orders candidates by precedence and returns the one
// validator.Precedence.Less ranks highest, plus the full ranked slice
// (highest precedence first) for a caller that wants to log or inspect
// the runners-up. It implements only the precedence ordering defined for
// a single seqno; it is not a consensus mechanism and makes no claim
// about which branch a network of replicas converges on when two
// candidates arrive at different peers — that coordination problem is out
// of scope for this package.
func ChoosePreferred(candidates []Candidate) (*Candidate, []Candidate) {
	if len(candidates) == 0 {
		return nil, nil
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	insertionSortByPrecedence(ranked)

	best := ranked[0]
	return &best, ranked
}

// insertionSortByPrecedence sorts ranked in place, highest precedence
// first, stable on ties so equal-precedence candidates keep their
// original relative order rather than leaving the tie unresolved by
// accident of sort algorithm.
func insertionSortByPrecedence(ranked []Candidate) {
	for i := 1; i < len(ranked); i++ {
		j := i
		for j > 0 && ranked[j].Precedence.Less(ranked[j-1].Precedence) {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
			j--
		}
	}
}
