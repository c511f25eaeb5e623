// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package value implements the provenance-log Value tagged union: nil, str,
// and data variants.
package value

import "bytes"

// Kind discriminates the Value tagged union.
type Kind uint8

const (
	// KindNil carries no payload.
	KindNil Kind = iota
	// KindStr carries UTF-8 text.
	KindStr
	// KindData carries an opaque byte string.
	KindData
)

// Value is a self-describing tagged union of nil, str, or data.
type Value struct {
	kind Kind
	str  string
	data []byte
}

// Nil returns the nil Value.
func Nil() Value { return Value{kind: KindNil} }

// Str wraps UTF-8 text as a Value.
func Str(s string) Value { return Value{kind: KindStr, str: s} }

// Data wraps an opaque byte string as a Value.
func Data(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindData, data: cp}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the nil variant.
func (v Value) IsNil() bool { return v.kind == KindNil }

// AsStr returns the string payload and true if v is the str variant.
func (v Value) AsStr() (string, bool) {
	if v.kind != KindStr {
		return "", false
	}
	return v.str, true
}

// AsData returns the byte payload and true if v is the data variant. The
// slice is a borrowed clone; callers must not assume aliasing.
func (v Value) AsData() ([]byte, bool) {
	if v.kind != KindData {
		return nil, false
	}
	cp := make([]byte, len(v.data))
	copy(cp, v.data)
	return cp, true
}

// Bytes returns the raw payload bytes regardless of variant: empty for
// nil, the UTF-8 encoding for str, and the opaque bytes for data. Used by
// the script host, which only ever compares or hashes raw bytes.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindStr:
		return []byte(v.str)
	case KindData:
		cp := make([]byte, len(v.data))
		copy(cp, v.data)
		return cp
	default:
		return nil
	}
}

// Equal reports whether v and other carry the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindStr:
		return v.str == other.str
	case KindData:
		return bytes.Equal(v.data, other.data)
	default:
		return true
	}
}
