// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"context"
	"testing"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/entry"
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/plogerr"
	"github.com/luxfi/plog/script"
	"github.com/luxfi/plog/script/refvm"
	"github.com/luxfi/plog/value"
	"github.com/luxfi/plog/xcrypto"
)

const hashCode = cid.CodeSha2_256

func newKeypair(t *testing.T) (*secp256k1.PrivateKey, []byte) {
	t.Helper()
	priv, pub, err := xcrypto.GenerateSecp256k1()
	require.NoError(t, err)
	return priv, pub
}

// sign finalises e by computing its proof-erased encoding and signing it
// with priv, the way a non-fork genesis author signs with the ephemeral
// key and every later author signs with whichever key their lock expects.
func sign(t *testing.T, e *entry.Entry, priv *secp256k1.PrivateKey) {
	t.Helper()
	erased, err := entry.EncodeErased(e)
	require.NoError(t, err)
	e.Proof = xcrypto.SignSecp256k1(priv, erased)
}

func newVM() script.VM {
	return refvm.New(script.DefaultImports(), 0)
}

func baseCfg() Config {
	return Config{
		VM:                newVM(),
		Fuel:              10_000,
		HashCode:          hashCode,
		GenesisLockScript: refvm.CheckSignatureScript("/ephemeral"),
	}
}

// TestValidate_S1Genesis exercises the distinguished non-fork genesis
// path: the implied lock check_signature("/ephemeral") must resolve
// "/ephemeral" from the proposed entry's own update op, since there is no
// prior state to replay.
func TestValidate_S1Genesis(t *testing.T) {
	ephemPriv, ephemPub := newKeypair(t)
	_, mainPub := newKeypair(t)

	e := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.VLAD("plog-s1"),
		Seqno:   0,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/ephemeral"), value.Data(ephemPub)),
			entry.Update(keypath.MustParse("/pubkey"), value.Data(mainPub)),
		},
		Locks:  []entry.Lock{{Branch: keypath.Root, Script: refvm.CheckSignatureScript("/pubkey")}},
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, e, ephemPriv)

	result, err := Validate(context.Background(), nil, e, baseCfg())
	require.NoError(t, err)
	require.Equal(t, Precedence{BranchDepth: 0, CheckCount: 0, ContextDepth: 0}, result.Precedence)
}

func TestValidate_S1Genesis_WrongEphemeralSignatureRejected(t *testing.T) {
	_, ephemPub := newKeypair(t)
	impostorPriv, _ := newKeypair(t)
	_, mainPub := newKeypair(t)

	e := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.VLAD("plog-s1-bad"),
		Seqno:   0,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/ephemeral"), value.Data(ephemPub)),
			entry.Update(keypath.MustParse("/pubkey"), value.Data(mainPub)),
		},
		Locks:  []entry.Lock{{Branch: keypath.Root, Script: refvm.CheckSignatureScript("/pubkey")}},
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, e, impostorPriv)

	_, err := Validate(context.Background(), nil, e, baseCfg())
	require.Error(t, err)
	require.True(t, plogerr.OfKind(err, plogerr.LockFailed), "expected LockFailed, got %v", err)
}

// TestValidate_S2Append exercises an ordinary append: the root lock
// established at genesis requires a signature checked against /pubkey,
// replayed from the prior entry.
func TestValidate_S2Append(t *testing.T) {
	ephemPriv, ephemPub := newKeypair(t)
	mainPriv, mainPub := newKeypair(t)

	genesis := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.VLAD("plog-s2"),
		Seqno:   0,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/ephemeral"), value.Data(ephemPub)),
			entry.Update(keypath.MustParse("/pubkey"), value.Data(mainPub)),
		},
		Locks:  []entry.Lock{{Branch: keypath.Root, Script: refvm.CheckSignatureScript("/pubkey")}},
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, genesis, ephemPriv)

	genesisCID, err := genesis.CID(hashCode)
	require.NoError(t, err)

	appendEntry := &entry.Entry{
		Version: entry.V1,
		VLAD:    genesis.VLAD,
		Prev:    genesisCID,
		Seqno:   1,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/foo"), value.Str("bar")),
		},
		Locks:  genesis.Locks,
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, appendEntry, mainPriv)

	result, err := Validate(context.Background(), []*entry.Entry{genesis}, appendEntry, baseCfg())
	require.NoError(t, err)
	require.Equal(t, Precedence{BranchDepth: 0, CheckCount: 0, ContextDepth: 0}, result.Precedence)
}

// TestValidate_S3Delegation exercises a two-lock governing set: the root
// lock and a "/delegated/" lock whose key is resolved via branch("pubkey")
// relative to the lock's own associated branch. The delegate's own
// signature must satisfy the delegated lock even though it cannot satisfy
// the root lock, and the failed root attempt must not contaminate the
// delegated lock's own check_count.
func TestValidate_S3Delegation(t *testing.T) {
	ephemPriv, ephemPub := newKeypair(t)
	rootPriv, rootPub := newKeypair(t)
	delegatePriv, delegatePub := newKeypair(t)

	genesis := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.VLAD("plog-s3"),
		Seqno:   0,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/ephemeral"), value.Data(ephemPub)),
			entry.Update(keypath.MustParse("/pubkey"), value.Data(rootPub)),
		},
		Locks: []entry.Lock{
			{Branch: keypath.Root, Script: refvm.CheckSignatureScript("/pubkey")},
			{Branch: keypath.MustParse("/delegated/"), Script: refvm.BranchCheckSignatureScript("pubkey")},
		},
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, genesis, ephemPriv)
	genesisCID, err := genesis.CID(hashCode)
	require.NoError(t, err)

	// The root owner installs the delegate's key under /delegated/pubkey.
	// This op is within the "/delegated/" context branch too, but the
	// root lock is tried first (shallower) and succeeds, so it is the one
	// that wins.
	installDelegate := &entry.Entry{
		Version: entry.V1,
		VLAD:    genesis.VLAD,
		Prev:    genesisCID,
		Seqno:   1,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/delegated/pubkey"), value.Data(delegatePub)),
		},
		Locks:  genesis.Locks,
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, installDelegate, rootPriv)

	installCID, err := installDelegate.CID(hashCode)
	require.NoError(t, err)

	result, err := Validate(context.Background(), []*entry.Entry{genesis}, installDelegate, baseCfg())
	require.NoError(t, err)
	require.Equal(t, Precedence{BranchDepth: 0, CheckCount: 0, ContextDepth: 1}, result.Precedence)

	// Now the delegate acts independently under their own branch. The
	// root lock is tried first and fails (wrong key), bumping its own
	// check_count to 1, but that count belongs to the root lock's own
	// (losing) attempt and must not appear in the winning tuple.
	delegateAction := &entry.Entry{
		Version: entry.V1,
		VLAD:    genesis.VLAD,
		Prev:    installCID,
		Lipmaa:  installCID, // lipmaa.Predecessor(2) == 1
		Seqno:   2,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/delegated/settings"), value.Str("enabled")),
		},
		Locks:  genesis.Locks,
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, delegateAction, delegatePriv)

	result2, err := Validate(context.Background(), []*entry.Entry{genesis, installDelegate}, delegateAction, baseCfg())
	require.NoError(t, err)
	require.Equal(t, Precedence{BranchDepth: 1, CheckCount: 0, ContextDepth: 1}, result2.Precedence)
}

// TestValidate_S5Recovery exercises an OR'd recovery lock: check_signature
// against the primary key, then the recovery key, then a preimage
// fallback. An entry signed with the recovery key (not the primary key)
// must still validate, with a check_count reflecting the one failed
// primary-key attempt along the way.
func TestValidate_S5Recovery(t *testing.T) {
	ephemPriv, ephemPub := newKeypair(t)
	_, mainPub := newKeypair(t)
	recoveryPriv, recoveryPub := newKeypair(t)

	lockScript := refvm.OrChainScript(
		[2]string{"_check_signature", "/pubkey"},
		[2]string{"_check_signature", "/recovery_pubkey"},
		[2]string{"_check_preimage", "/reset_hash"},
	)

	genesis := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.VLAD("plog-s5"),
		Seqno:   0,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/ephemeral"), value.Data(ephemPub)),
			entry.Update(keypath.MustParse("/pubkey"), value.Data(mainPub)),
			entry.Update(keypath.MustParse("/recovery_pubkey"), value.Data(recoveryPub)),
		},
		Locks:  []entry.Lock{{Branch: keypath.Root, Script: lockScript}},
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, genesis, ephemPriv)
	genesisCID, err := genesis.CID(hashCode)
	require.NoError(t, err)

	recover := &entry.Entry{
		Version: entry.V1,
		VLAD:    genesis.VLAD,
		Prev:    genesisCID,
		Seqno:   1,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/pubkey"), value.Data(mainPub)),
		},
		Locks:  genesis.Locks,
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, recover, recoveryPriv)

	result, err := Validate(context.Background(), []*entry.Entry{genesis}, recover, baseCfg())
	require.NoError(t, err)
	require.Equal(t, Precedence{BranchDepth: 0, CheckCount: 1, ContextDepth: 0}, result.Precedence)
}

// s6LockScript assembles check_signature(branch("pubkey")) ||
// (check_eq(branch("vlad")) && check_signature(branch("pubkey"))), the
// fork-governing lock from S6. Jump targets assume every offset stays
// under 128 (a one-byte uvarint), true for this fixed script.
func s6LockScript() []byte {
	var code []byte

	code = append(code, refvm.Branch("pubkey")...)
	code = append(code, refvm.CallHost("_check_signature")...)

	// If arm A already succeeded, stop here; otherwise fall through to
	// arm B.
	appendGuard := func(onFailureContinueLen int) {
		succeeded := refvm.Succeeded()
		placeholder := refvm.JumpIfZero(0)
		target := len(code) + len(succeeded) + len(placeholder) + onFailureContinueLen
		jump := refvm.JumpIfZero(target)
		if len(jump) != len(placeholder) {
			panic("refvm: s6LockScript jump target needs a wider uvarint than assumed")
		}
		code = append(code, succeeded...)
		code = append(code, jump...)
	}
	appendGuard(len(refvm.Return()))
	code = append(code, refvm.Return()...)

	code = append(code, refvm.Branch("vlad")...)
	code = append(code, refvm.CallHost("_check_eq")...)

	seg3 := refvm.Assemble(refvm.Branch("pubkey"), refvm.CallHost("_check_signature"))
	appendGuard(len(seg3))
	code = append(code, seg3...)

	code = append(code, refvm.Return()...)
	return code
}

func s6UnlockScript() []byte {
	return refvm.Assemble(
		refvm.PushConst([]byte("/entry/")), refvm.CallHost("_push"),
		refvm.PushConst([]byte("/entry/proof")), refvm.CallHost("_push"),
		refvm.PushConst([]byte("/entry/vlad")), refvm.CallHost("_push"),
		refvm.Return(),
	)
}

// TestValidate_S6ForkFirst exercises a fork-first genesis entry: seqno 0,
// prev pointing into the parent plog, governed by the parent's own lock
// set rather than an implied ephemeral lock.
func TestValidate_S6ForkFirst(t *testing.T) {
	parentEphemPriv, parentEphemPub := newKeypair(t)
	parentRootPriv, parentRootPub := newKeypair(t)
	forksPriv, forksPub := newKeypair(t)

	childVLAD := []byte("plog-s6-child")

	parentGenesis := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.VLAD("plog-s6-parent"),
		Seqno:   0,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/ephemeral"), value.Data(parentEphemPub)),
			entry.Update(keypath.MustParse("/pubkey"), value.Data(parentRootPub)),
			entry.Update(keypath.MustParse("/forks/pubkey"), value.Data(forksPub)),
			entry.Update(keypath.MustParse("/forks/vlad"), value.Data(childVLAD)),
		},
		Locks: []entry.Lock{
			{Branch: keypath.Root, Script: refvm.CheckSignatureScript("/pubkey")},
			{Branch: keypath.MustParse("/forks/"), Script: s6LockScript()},
		},
		Unlock: refvm.PushEntryThenProofUnlockScript(),
	}
	sign(t, parentGenesis, parentEphemPriv)
	parentHeadCID, err := parentGenesis.CID(hashCode)
	require.NoError(t, err)
	_ = parentRootPriv // the root lock is tried and must fail in this scenario

	childGenesis := &entry.Entry{
		Version: entry.V1,
		VLAD:    cid.VLAD(childVLAD),
		Prev:    parentHeadCID,
		Seqno:   0,
		Ops: []entry.Op{
			entry.Update(keypath.MustParse("/forks/child1/settings"), value.Str("x")),
		},
		Unlock: s6UnlockScript(),
	}
	sign(t, childGenesis, forksPriv)

	result, err := Validate(context.Background(), []*entry.Entry{parentGenesis}, childGenesis, baseCfg())
	require.NoError(t, err)
	require.Equal(t, Precedence{BranchDepth: 1, CheckCount: 1, ContextDepth: 2}, result.Precedence)
}

func TestStructuralCheck_RejectsUnsupportedVersion(t *testing.T) {
	e := &entry.Entry{Version: entry.Version(99), Seqno: 0}
	err := structuralCheck(nil, e, hashCode)
	require.Error(t, err)
	require.True(t, plogerr.OfKind(err, plogerr.MalformedEntry))
}

func TestStructuralCheck_RejectsSeqnoGapOnAppend(t *testing.T) {
	head := &entry.Entry{Version: entry.V1, Seqno: 0}
	headCID, err := head.CID(hashCode)
	require.NoError(t, err)

	proposed := &entry.Entry{Version: entry.V1, Seqno: 5, Prev: headCID}
	err = structuralCheck([]*entry.Entry{head}, proposed, hashCode)
	require.Error(t, err)
	require.True(t, plogerr.OfKind(err, plogerr.BrokenChain))
}

func TestStructuralCheck_RejectsBadPrev(t *testing.T) {
	head := &entry.Entry{Version: entry.V1, Seqno: 0}
	proposed := &entry.Entry{Version: entry.V1, Seqno: 1, Prev: cid.CID{Code: hashCode, Digest: []byte("nonsense")}}
	err := structuralCheck([]*entry.Entry{head}, proposed, hashCode)
	require.Error(t, err)
	require.True(t, plogerr.OfKind(err, plogerr.BrokenChain))
}

func TestStructuralCheck_RejectsBadLipmaa(t *testing.T) {
	e0 := &entry.Entry{Version: entry.V1, Seqno: 0}
	e0CID, err := e0.CID(hashCode)
	require.NoError(t, err)
	e1 := &entry.Entry{Version: entry.V1, Seqno: 1, Prev: e0CID}
	e1CID, err := e1.CID(hashCode)
	require.NoError(t, err)

	e2 := &entry.Entry{
		Version: entry.V1,
		Seqno:   2,
		Prev:    e1CID,
		Lipmaa:  cid.CID{Code: hashCode, Digest: []byte("wrong")},
	}
	err = structuralCheck([]*entry.Entry{e0, e1}, e2, hashCode)
	require.Error(t, err)
	require.True(t, plogerr.OfKind(err, plogerr.BrokenChain))
}

func TestStructuralCheck_RejectsInvalidOpKeyPath(t *testing.T) {
	e := &entry.Entry{
		Version: entry.V1,
		Seqno:   0,
		Ops:     []entry.Op{{Kind: entry.OpUpdate, Key: "no-leading-slash", Value: value.Str("x")}},
	}
	err := structuralCheck(nil, e, hashCode)
	require.Error(t, err)
	require.True(t, plogerr.OfKind(err, plogerr.InvalidKeyPath))
}

func TestStructuralCheck_RejectsLeafLockBranch(t *testing.T) {
	e := &entry.Entry{
		Version: entry.V1,
		Seqno:   0,
		Locks:   []entry.Lock{{Branch: "/not-a-branch"}},
	}
	err := structuralCheck(nil, e, hashCode)
	require.Error(t, err)
	require.True(t, plogerr.OfKind(err, plogerr.InvalidKeyPath))
}

func TestEligibleLocks_FiltersAndSortsRootToLeaf(t *testing.T) {
	locks := []entry.Lock{
		{Branch: keypath.MustParse("/delegated/")},
		{Branch: keypath.Root},
		{Branch: keypath.MustParse("/unrelated/")},
	}
	got := eligibleLocks(locks, keypath.MustParse("/delegated/mike/"))
	require.Len(t, got, 2)
	require.Equal(t, keypath.Root, got[0].Branch)
	require.Equal(t, keypath.MustParse("/delegated/"), got[1].Branch)
}
