// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package entry

import (
	"fmt"

	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/plogerr"
	"github.com/luxfi/plog/value"

	"github.com/luxfi/plog/internal/varint"
)

// Encode produces the canonical binary encoding of e, proof intact. Field
// order is fixed exactly as in SPEC_FULL.md §3: version, vlad, prev,
// lipmaa, seqno, ops, locks, unlock, proof.
func Encode(e *Entry) ([]byte, error) {
	return encode(e, false)
}

// EncodeErased produces the proof-erased canonical encoding: every field
// identical to Encode except the proof field, whose length prefix is
// written as zero and whose payload is empty. This is exactly the value
// the script host exposes to scripts at /entry/.
func EncodeErased(e *Entry) ([]byte, error) {
	return encode(e, true)
}

func encode(e *Entry, erase bool) ([]byte, error) {
	var buf []byte
	buf = varint.PutUvarint(buf, uint64(e.Version))
	buf = varint.PutBytes(buf, e.VLAD)
	buf = varint.PutOptionalBytes(buf, e.Prev.Bytes(), !e.Prev.IsZero())
	buf = varint.PutOptionalBytes(buf, e.Lipmaa.Bytes(), !e.Lipmaa.IsZero())
	buf = varint.PutUint64(buf, e.Seqno)

	buf = varint.PutUvarint(buf, uint64(len(e.Ops)))
	for _, op := range e.Ops {
		var err error
		buf, err = encodeOp(buf, op)
		if err != nil {
			return nil, err
		}
	}

	buf = varint.PutUvarint(buf, uint64(len(e.Locks)))
	for _, l := range e.Locks {
		buf = varint.PutBytes(buf, []byte(l.Branch))
		buf = varint.PutBytes(buf, l.Script)
	}

	buf = varint.PutBytes(buf, e.Unlock)

	if erase {
		buf = varint.PutBytes(buf, nil)
	} else {
		buf = varint.PutBytes(buf, e.Proof)
	}

	return buf, nil
}

// EncodeOps encodes just the ops list in the same shape Encode embeds it
// in, for callers (the validator's /entry/ops param-store field) that need
// the sub-encoding without a full entry around it.
func EncodeOps(ops []Op) ([]byte, error) {
	var buf []byte
	buf = varint.PutUvarint(buf, uint64(len(ops)))
	for _, op := range ops {
		var err error
		buf, err = encodeOp(buf, op)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// EncodeLocks encodes just the locks list in the same shape Encode embeds
// it in, for the validator's /entry/locks param-store field.
func EncodeLocks(locks []Lock) []byte {
	var buf []byte
	buf = varint.PutUvarint(buf, uint64(len(locks)))
	for _, l := range locks {
		buf = varint.PutBytes(buf, []byte(l.Branch))
		buf = varint.PutBytes(buf, l.Script)
	}
	return buf
}

func encodeOp(buf []byte, op Op) ([]byte, error) {
	buf = append(buf, byte(op.Kind))
	buf = varint.PutBytes(buf, []byte(op.Key))
	buf = append(buf, byte(op.Value.Kind()))
	switch op.Value.Kind() {
	case value.KindNil:
		// no payload
	case value.KindStr, value.KindData:
		buf = varint.PutBytes(buf, op.Value.Bytes())
	default:
		return nil, plogerr.New(plogerr.MalformedEntry, fmt.Sprintf("unknown value kind %d", op.Value.Kind()))
	}
	return buf, nil
}

// Decode parses the canonical binary encoding produced by Encode or
// EncodeErased back into an Entry. Decode(Encode(e)) == e for every
// well-formed e (codec round-trip, SPEC_FULL.md §8 property 1).
func Decode(b []byte) (*Entry, error) {
	e := &Entry{}

	version, rest, err := varint.ReadUvarint(b)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "version", err)
	}
	e.Version = Version(version)
	if e.Version != V1 {
		return nil, plogerr.New(plogerr.MalformedEntry, fmt.Sprintf("unsupported entry version %d", e.Version))
	}

	vlad, rest, err := varint.ReadBytes(rest)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "vlad", err)
	}
	e.VLAD = cid.VLAD(vlad)

	prevBytes, present, rest, err := varint.ReadOptionalBytes(rest)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "prev", err)
	}
	if present {
		e.Prev, err = cid.Decode(prevBytes)
		if err != nil {
			return nil, plogerr.Wrap(plogerr.MalformedEntry, "prev cid", err)
		}
	}

	lipmaaBytes, present, rest, err := varint.ReadOptionalBytes(rest)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "lipmaa", err)
	}
	if present {
		e.Lipmaa, err = cid.Decode(lipmaaBytes)
		if err != nil {
			return nil, plogerr.Wrap(plogerr.MalformedEntry, "lipmaa cid", err)
		}
	}

	e.Seqno, rest, err = varint.ReadUint64(rest)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "seqno", err)
	}

	opCount, rest, err := varint.ReadUvarint(rest)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "op count", err)
	}
	e.Ops = make([]Op, opCount)
	for i := range e.Ops {
		e.Ops[i], rest, err = decodeOp(rest)
		if err != nil {
			return nil, err
		}
	}

	lockCount, rest, err := varint.ReadUvarint(rest)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "lock count", err)
	}
	e.Locks = make([]Lock, lockCount)
	for i := range e.Locks {
		branchBytes, r, err := varint.ReadBytes(rest)
		if err != nil {
			return nil, plogerr.Wrap(plogerr.MalformedEntry, "lock branch", err)
		}
		script, r2, err := varint.ReadBytes(r)
		if err != nil {
			return nil, plogerr.Wrap(plogerr.MalformedEntry, "lock script", err)
		}
		e.Locks[i] = Lock{Branch: keypath.Path(branchBytes), Script: script}
		rest = r2
	}

	e.Unlock, rest, err = varint.ReadBytes(rest)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "unlock", err)
	}

	e.Proof, rest, err = varint.ReadBytes(rest)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "proof", err)
	}

	if len(rest) != 0 {
		return nil, plogerr.New(plogerr.MalformedEntry, "trailing bytes after entry")
	}

	return e, nil
}

func decodeOp(buf []byte) (Op, []byte, error) {
	if len(buf) < 1 {
		return Op{}, nil, plogerr.New(plogerr.MalformedEntry, "truncated op kind")
	}
	kind := OpKind(buf[0])
	buf = buf[1:]

	keyBytes, buf, err := varint.ReadBytes(buf)
	if err != nil {
		return Op{}, nil, plogerr.Wrap(plogerr.MalformedEntry, "op key", err)
	}
	key, err := keypath.Parse(string(keyBytes))
	if err != nil {
		return Op{}, nil, plogerr.Wrap(plogerr.InvalidKeyPath, "op key", err)
	}

	if len(buf) < 1 {
		return Op{}, nil, plogerr.New(plogerr.MalformedEntry, "truncated value kind")
	}
	valueKind := value.Kind(buf[0])
	buf = buf[1:]

	var v value.Value
	switch valueKind {
	case value.KindNil:
		v = value.Nil()
	case value.KindStr:
		var payload []byte
		payload, buf, err = varint.ReadBytes(buf)
		if err != nil {
			return Op{}, nil, plogerr.Wrap(plogerr.MalformedEntry, "op value", err)
		}
		v = value.Str(string(payload))
	case value.KindData:
		var payload []byte
		payload, buf, err = varint.ReadBytes(buf)
		if err != nil {
			return Op{}, nil, plogerr.Wrap(plogerr.MalformedEntry, "op value", err)
		}
		v = value.Data(payload)
	default:
		return Op{}, nil, plogerr.New(plogerr.MalformedEntry, fmt.Sprintf("unknown value kind %d", valueKind))
	}

	switch kind {
	case OpUpdate, OpDelete, OpNoop:
	default:
		return Op{}, nil, plogerr.New(plogerr.MalformedEntry, fmt.Sprintf("unknown op kind %d", kind))
	}

	return Op{Kind: kind, Key: key, Value: v}, buf, nil
}

// EncodeLog serialises entries as a length-prefixed sequence of canonical
// encodings, foot-to-head.
func EncodeLog(entries []*Entry) ([]byte, error) {
	var out []byte
	for _, e := range entries {
		b, err := Encode(e)
		if err != nil {
			return nil, err
		}
		out = varint.PutBytes(out, b)
	}
	return out, nil
}

// DecodeLog parses the wire form produced by EncodeLog.
func DecodeLog(b []byte) ([]*Entry, error) {
	var entries []*Entry
	for len(b) > 0 {
		var raw []byte
		var err error
		raw, b, err = varint.ReadBytes(b)
		if err != nil {
			return nil, plogerr.Wrap(plogerr.MalformedEntry, "log entry frame", err)
		}
		e, err := Decode(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
