// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lipmaa computes Lipmaa-number skip links for a hash-linked log,
// the same O(log n) back-link recurrence used by Bamboo and secure-scuttlebutt
// to give any entry a short backwards path to any earlier entry.
package lipmaa

// Predecessor returns the 0-indexed seqno that entry seqno's lipmaa link
// should point to. seqno must be >= 1; seqno 0 (genesis) has no lipmaa link.
//
// The classic formulation is stated over 1-indexed positions n >= 2: write
// m = n-1 = 3^y * x with x not divisible by 3. Then
//
//	L(n) = n - 3^y            if x mod 3 == 1
//	L(n) = n - (3^(y+1)-1)/2  otherwise
//
// We shift our 0-indexed seqno into that 1-indexed space, apply the
// recurrence, and shift the result back.
func Predecessor(seqno uint64) uint64 {
	if seqno == 0 {
		return 0
	}

	n := seqno + 1
	m := n - 1

	y := uint64(0)
	x := m
	for x != 0 && x%3 == 0 {
		x /= 3
		y++
	}

	var l uint64
	if x%3 == 1 {
		l = n - pow3(y)
	} else {
		l = n - (pow3(y+1)-1)/2
	}

	return l - 1
}

func pow3(y uint64) uint64 {
	r := uint64(1)
	for i := uint64(0); i < y; i++ {
		r *= 3
	}
	return r
}
