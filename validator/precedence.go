// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

// Precedence is the tuple computed for an accepted entry: the depth of the
// lock branch that succeeded, the check_count at the moment of success,
// and the depth of the ops context branch C. Smaller tuples, compared
// lexicographically component by component, mean higher precedence.
type Precedence struct {
	BranchDepth  int
	CheckCount   uint64
	ContextDepth int
}

// Less reports whether p has strictly higher precedence than other.
func (p Precedence) Less(other Precedence) bool {
	if p.BranchDepth != other.BranchDepth {
		return p.BranchDepth < other.BranchDepth
	}
	if p.CheckCount != other.CheckCount {
		return p.CheckCount < other.CheckCount
	}
	return p.ContextDepth < other.ContextDepth
}
