// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"github.com/luxfi/plog/entry"
	"github.com/luxfi/plog/internal/varint"
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/kvstore"
	"github.com/luxfi/plog/value"
)

// populateEntryFields writes the proposed entry's fields into store under
// the /entry/ namespace (§4.6 step 2/4): /entry/version, /entry/vlad,
// /entry/prev, /entry/lipmaa, /entry/seqno, /entry/ops, /entry/locks,
// /entry/unlock, /entry/proof, and /entry/ itself (the proof-erased
// canonical encoding). These names always refer to the proposed entry,
// regardless of whether the rest of the store is S_prop or S_cur.
func populateEntryFields(store *kvstore.Store, e *entry.Entry) error {
	erased, err := entry.EncodeErased(e)
	if err != nil {
		return err
	}
	ops, err := entry.EncodeOps(e.Ops)
	if err != nil {
		return err
	}

	set := func(rel string, b []byte) {
		store.Set(keypath.MustParse("/entry/"+rel), value.Data(b))
	}

	set("version", varint.PutUvarint(nil, uint64(e.Version)))
	set("vlad", []byte(e.VLAD))
	set("prev", e.Prev.Bytes())
	set("lipmaa", e.Lipmaa.Bytes())
	set("seqno", varint.PutUint64(nil, e.Seqno))
	set("ops", ops)
	set("locks", entry.EncodeLocks(e.Locks))
	set("unlock", e.Unlock)
	set("proof", e.Proof)
	store.Set(keypath.MustParse("/entry/"), value.Data(erased))

	return nil
}
