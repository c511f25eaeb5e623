// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cid implements content identifiers and VLADs: the multihash of
// a canonical entry encoding, and the stable plog identifier bound to
// neither. Modeled as a table-driven code registry the way the teacher
// package's registry/registry.go dispatches precompile addresses by code,
// here repurposed for multihash algorithm codes.
package cid

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/luxfi/plog/internal/varint"
	"github.com/luxfi/plog/xcrypto"
)

// Code identifies the hash function used to produce a CID's digest.
type Code uint64

const (
	// CodeSha2_256 names sha2-256.
	CodeSha2_256 Code = 0x12
	// CodeBlake3 names blake3 (32-byte digest).
	CodeBlake3 Code = 0x1E
)

var hashFuncs = map[Code]func([]byte) []byte{
	CodeSha2_256: xcrypto.Sha2_256,
	CodeBlake3:   xcrypto.Blake3,
}

// ErrUnknownCode means the CID names a hash function this build doesn't
// implement.
var ErrUnknownCode = errors.New("cid: unknown multihash code")

// CID is a self-describing content identifier: a hash function code plus
// the digest it produced.
type CID struct {
	Code   Code
	Digest []byte
}

// Sum computes the CID of data under the named hash function.
func Sum(code Code, data []byte) (CID, error) {
	f, ok := hashFuncs[code]
	if !ok {
		return CID{}, fmt.Errorf("%w: %#x", ErrUnknownCode, code)
	}
	return CID{Code: code, Digest: f(data)}, nil
}

// Bytes returns the canonical byte encoding of the CID: a uvarint code
// followed by the raw digest bytes.
func (c CID) Bytes() []byte {
	out := varint.PutUvarint(nil, uint64(c.Code))
	return append(out, c.Digest...)
}

// Decode parses a CID from its canonical byte encoding.
func Decode(b []byte) (CID, error) {
	code, rest, err := varint.ReadUvarint(b)
	if err != nil {
		return CID{}, fmt.Errorf("cid: %w", err)
	}
	digest := make([]byte, len(rest))
	copy(digest, rest)
	return CID{Code: Code(code), Digest: digest}, nil
}

// Equal reports whether two CIDs have the same code and digest.
func (c CID) Equal(other CID) bool {
	return c.Code == other.Code && bytes.Equal(c.Digest, other.Digest)
}

// IsZero reports whether c is the unset CID (⊥).
func (c CID) IsZero() bool {
	return c.Code == 0 && len(c.Digest) == 0
}

// String renders the CID as a base58-encoded string, matching the text
// form the corpus uses for content identifiers and public keys alike.
func (c CID) String() string {
	if c.IsZero() {
		return "-"
	}
	return base58.Encode(c.Bytes())
}

// ParseString decodes a base58-encoded CID produced by String.
func ParseString(s string) (CID, error) {
	if s == "-" {
		return CID{}, nil
	}
	b, err := base58.Decode(s)
	if err != nil {
		return CID{}, fmt.Errorf("cid: %w", err)
	}
	return Decode(b)
}

// VLAD is a Very Long-lived ADdress: a stable identifier bound to a plog,
// independent of any current key material. It carries no internal
// structure the core interprets; it is compared and hashed as opaque
// bytes.
type VLAD []byte

// Equal reports byte-for-byte equality.
func (v VLAD) Equal(other VLAD) bool { return bytes.Equal(v, other) }

// String renders the VLAD as base58 text.
func (v VLAD) String() string { return base58.Encode(v) }

// NewVLAD derives a VLAD from a genesis public key and a random nonce, the
// way a self-signed genesis entry mints a new plog identity: the VLAD is
// the blake3 digest of the tagged public key concatenated with the nonce,
// so it is stable across future key rotation but bound to the entry that
// created it.
func NewVLAD(genesisPub, nonce []byte) VLAD {
	buf := make([]byte, 0, len(genesisPub)+len(nonce))
	buf = append(buf, genesisPub...)
	buf = append(buf, nonce...)
	return VLAD(xcrypto.Blake3(buf))
}
