// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package entry

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/plogerr"
	"github.com/luxfi/plog/value"
)

// cborEntry is the DAG-CBOR wire shape (SPEC_FULL.md §6): an interoperable
// alternative transport for an Entry. The CID is never computed over this
// form — only over the canonical binary encoding in codec.go.
type cborEntry struct {
	Version uint64     `cbor:"version"`
	VLAD    []byte     `cbor:"vlad"`
	Prev    []byte     `cbor:"prev,omitempty"`
	Lipmaa  []byte     `cbor:"lipmaa,omitempty"`
	Seqno   uint64     `cbor:"seqno"`
	Ops     []cborOp   `cbor:"ops"`
	Locks   []cborLock `cbor:"locks"`
	Unlock  []byte     `cbor:"unlock"`
	Proof   []byte     `cbor:"proof"`
}

type cborOp struct {
	Kind       uint8  `cbor:"kind"`
	Key        string `cbor:"key"`
	ValueKind  uint8  `cbor:"value_kind"`
	ValueBytes []byte `cbor:"value_bytes,omitempty"`
}

type cborLock struct {
	Branch string `cbor:"branch"`
	Script []byte `cbor:"script"`
}

// EncodeCBOR marshals e to the interoperable DAG-CBOR alternative form.
func EncodeCBOR(e *Entry) ([]byte, error) {
	ce := cborEntry{
		Version: uint64(e.Version),
		VLAD:    []byte(e.VLAD),
		Seqno:   e.Seqno,
		Unlock:  e.Unlock,
		Proof:   e.Proof,
	}
	if !e.Prev.IsZero() {
		ce.Prev = e.Prev.Bytes()
	}
	if !e.Lipmaa.IsZero() {
		ce.Lipmaa = e.Lipmaa.Bytes()
	}
	ce.Ops = make([]cborOp, len(e.Ops))
	for i, op := range e.Ops {
		ce.Ops[i] = cborOp{
			Kind:       uint8(op.Kind),
			Key:        string(op.Key),
			ValueKind:  uint8(op.Value.Kind()),
			ValueBytes: op.Value.Bytes(),
		}
	}
	ce.Locks = make([]cborLock, len(e.Locks))
	for i, l := range e.Locks {
		ce.Locks[i] = cborLock{Branch: string(l.Branch), Script: l.Script}
	}
	return cbor.Marshal(ce)
}

// DecodeCBOR parses the DAG-CBOR alternative form produced by EncodeCBOR.
func DecodeCBOR(b []byte) (*Entry, error) {
	var ce cborEntry
	if err := cbor.Unmarshal(b, &ce); err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "cbor decode", err)
	}

	e := &Entry{
		Version: Version(ce.Version),
		VLAD:    cid.VLAD(ce.VLAD),
		Seqno:   ce.Seqno,
		Unlock:  ce.Unlock,
		Proof:   ce.Proof,
	}
	if e.Version != V1 {
		return nil, plogerr.New(plogerr.MalformedEntry, "unsupported entry version")
	}
	if len(ce.Prev) > 0 {
		c, err := cid.Decode(ce.Prev)
		if err != nil {
			return nil, plogerr.Wrap(plogerr.MalformedEntry, "cbor prev", err)
		}
		e.Prev = c
	}
	if len(ce.Lipmaa) > 0 {
		c, err := cid.Decode(ce.Lipmaa)
		if err != nil {
			return nil, plogerr.Wrap(plogerr.MalformedEntry, "cbor lipmaa", err)
		}
		e.Lipmaa = c
	}

	e.Ops = make([]Op, len(ce.Ops))
	for i, op := range ce.Ops {
		key, err := keypath.Parse(op.Key)
		if err != nil {
			return nil, plogerr.Wrap(plogerr.InvalidKeyPath, "cbor op key", err)
		}
		var v value.Value
		switch value.Kind(op.ValueKind) {
		case value.KindNil:
			v = value.Nil()
		case value.KindStr:
			v = value.Str(string(op.ValueBytes))
		case value.KindData:
			v = value.Data(op.ValueBytes)
		default:
			return nil, plogerr.New(plogerr.MalformedEntry, "cbor op value kind")
		}
		e.Ops[i] = Op{Kind: OpKind(op.Kind), Key: key, Value: v}
	}

	e.Locks = make([]Lock, len(ce.Locks))
	for i, l := range ce.Locks {
		branch, err := keypath.Parse(l.Branch)
		if err != nil {
			return nil, plogerr.Wrap(plogerr.InvalidKeyPath, "cbor lock branch", err)
		}
		e.Locks[i] = Lock{Branch: branch, Script: l.Script}
	}

	return e, nil
}
