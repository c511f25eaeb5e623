// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package varint provides the length-prefixed unsigned-varint and
// byte-string primitives the canonical entry codec is built from.
package varint

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrTruncated is returned when a buffer ends before a length-prefixed
// field can be fully read.
var ErrTruncated = errors.New("varint: truncated input")

// PutUvarint appends n to dst as an unsigned LEB128 varint.
func PutUvarint(dst []byte, n uint64) []byte {
	var buf [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(buf[:], n)
	return append(dst, buf[:l]...)
}

// ReadUvarint reads an unsigned varint from the front of buf and returns
// the value plus the remaining bytes.
func ReadUvarint(buf []byte) (uint64, []byte, error) {
	n, l := binary.Uvarint(buf)
	if l <= 0 {
		return 0, nil, ErrTruncated
	}
	return n, buf[l:], nil
}

// PutBytes appends b to dst as a uvarint length prefix followed by the raw
// bytes.
func PutBytes(dst []byte, b []byte) []byte {
	dst = PutUvarint(dst, uint64(len(b)))
	return append(dst, b...)
}

// ReadBytes reads a length-prefixed byte string from the front of buf and
// returns a fresh copy plus the remaining bytes.
func ReadBytes(buf []byte) ([]byte, []byte, error) {
	n, rest, err := ReadUvarint(buf)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(rest)) < n {
		return nil, nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, rest[:n])
	return out, rest[n:], nil
}

// PutOptionalBytes encodes an optional byte string: a presence byte
// followed by PutBytes when present. Used for prev/lipmaa CIDs, which are
// absent (⊥) at the foot of a log.
func PutOptionalBytes(dst []byte, b []byte, present bool) []byte {
	if !present {
		return append(dst, 0)
	}
	dst = append(dst, 1)
	return PutBytes(dst, b)
}

// ReadOptionalBytes is the reader counterpart of PutOptionalBytes.
func ReadOptionalBytes(buf []byte) (data []byte, present bool, rest []byte, err error) {
	if len(buf) == 0 {
		return nil, false, nil, ErrTruncated
	}
	tag := buf[0]
	buf = buf[1:]
	if tag == 0 {
		return nil, false, buf, nil
	}
	data, rest, err = ReadBytes(buf)
	if err != nil {
		return nil, false, nil, err
	}
	return data, true, rest, nil
}

// PutUint64 appends n as a fixed-size 8-byte big-endian field, used for
// seqno so sequence ordering is a plain byte-compare.
func PutUint64(dst []byte, n uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return append(dst, buf[:]...)
}

// ReadUint64 reads the fixed 8-byte big-endian field written by PutUint64.
func ReadUint64(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, io.ErrUnexpectedEOF
	}
	return binary.BigEndian.Uint64(buf[:8]), buf[8:], nil
}
