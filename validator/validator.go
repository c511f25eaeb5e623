// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validator drives the eight-step provenance-log validation
// protocol: structural checks, proposed/current param-store construction,
// unlock execution, eligible-lock selection, and lock execution with
// precedence-tuple computation.
package validator

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/entry"
	"github.com/luxfi/plog/internal/logging"
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/kvstore"
	"github.com/luxfi/plog/lipmaa"
	"github.com/luxfi/plog/plogerr"
	"github.com/luxfi/plog/script"
)

// Config bundles the parameters a validation run needs beyond the log and
// the proposed entry itself.
type Config struct {
	// VM compiles and runs lock/unlock scripts.
	VM script.VM
	// Fuel bounds VM steps per script invocation.
	Fuel uint64
	// AllowCheckInUnlock relaxes the unlock-script hermeticity guard
	// (spec default: false).
	AllowCheckInUnlock bool
	// HashCode is the multihash algorithm used to recompute CIDs for
	// prev/lipmaa structural checks.
	HashCode cid.Code
	// GenesisLockScript is the bytecode for the implied, distinguished
	// non-fork genesis lock (semantically check_signature("/ephemeral")),
	// compiled for whichever VM implementation cfg.VM is. Required only
	// when validating a non-fork genesis entry.
	GenesisLockScript []byte
	// Logger receives Debug-level validation outcomes and Warn-level
	// script traps. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Result is the outcome of an accepted validation.
type Result struct {
	Precedence Precedence
}

// ephemeralLockBranch is the branch of the distinguished implied lock for
// non-fork genesis entries, whose script (Config.GenesisLockScript) is
// check_signature("/ephemeral").
var ephemeralLockBranch = keypath.Root

// Validate runs the eight-step protocol against proposed, given the prior
// entries of the log the proposal extends (empty for a non-fork genesis;
// the parent's foot-to-head entries for a fork-first genesis; the log's own
// foot-to-head entries otherwise). It returns the accepted precedence
// tuple, or an error identifying why validation failed.
func Validate(ctx context.Context, priorEntries []*entry.Entry, proposed *entry.Entry, cfg Config) (*Result, error) {
	log := logging.OrNop(cfg.Logger)

	// Step 1: structural validation.
	if err := structuralCheck(priorEntries, proposed, cfg.HashCode); err != nil {
		log.Debug("structural validation failed", zap.Error(err))
		return nil, err
	}

	// Step 2: build S_prop.
	sProp := kvstore.New()
	if err := populateEntryFields(sProp, proposed); err != nil {
		return nil, plogerr.Wrap(plogerr.MalformedEntry, "populate S_prop", err)
	}

	// Step 3: run the unlock script. check_* is forbidden unless
	// AllowCheckInUnlock is set.
	unlockHost := script.NewHost(sProp, keypath.Root, cfg.AllowCheckInUnlock)
	unlockProg, err := cfg.VM.LoadUnlock(proposed.Unlock)
	if err != nil {
		return nil, plogerr.Wrap(plogerr.ScriptError, "load unlock script", err)
	}
	if err := unlockProg.Run(unlockHost, cfg.Fuel); err != nil {
		log.Warn("unlock script trapped", zap.Error(err))
		return nil, plogerr.Wrap(plogerr.ScriptError, "unlock script", err)
	}
	seed := unlockHost.ParamStack()

	// Step 4: build S_cur. A non-fork genesis entry is self-signed and has
	// no prior state; a fork-first genesis entry (seqno 0, prev pointing
	// into a parent plog) validates exactly like an append against the
	// parent's entries (§4.7).
	selfSigned := proposed.IsGenesis() && !proposed.IsFork()
	var sCur *kvstore.Store
	var governingLocks []entry.Lock
	if selfSigned {
		// The non-fork genesis entry is self-signed: there is no prior
		// state to replay, so S_cur is built by applying the proposed
		// entry's own ops (e.g. its update("/ephemeral", ...)) instead of
		// the usual foot-to-head replay. This is the one case where a
		// check consults the proposed entry's mutation effects.
		sCur = kvstore.Replay([]*entry.Entry{proposed})
		if err := populateEntryFields(sCur, proposed); err != nil {
			return nil, plogerr.Wrap(plogerr.MalformedEntry, "populate S_cur", err)
		}
		governingLocks = []entry.Lock{{Branch: ephemeralLockBranch, Script: cfg.GenesisLockScript}}
	} else {
		sCur = kvstore.Replay(priorEntries)
		if err := populateEntryFields(sCur, proposed); err != nil {
			return nil, plogerr.Wrap(plogerr.MalformedEntry, "populate S_cur", err)
		}
		governingLocks = priorEntries[len(priorEntries)-1].Locks
	}

	// Step 5: compute the context branch C.
	contextBranch := keypath.LongestCommonBranch(proposed.OpPaths())

	// Step 6: select and sort eligible locks, root-to-leaf.
	eligible := eligibleLocks(governingLocks, contextBranch)

	// Step 7: execute lock scripts in order.
	for _, lock := range eligible {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, checkCount, err := runLock(cfg, sCur, seed, lock)
		if err != nil {
			log.Warn("lock script trapped", zap.String("branch", string(lock.Branch)), zap.Error(err))
			continue
		}
		if ok {
			p := Precedence{
				BranchDepth:  lock.Branch.Depth(),
				CheckCount:   checkCount,
				ContextDepth: contextBranch.Depth(),
			}
			log.Debug("lock succeeded", zap.String("branch", string(lock.Branch)), zap.Uint64("check_count", checkCount))
			return &Result{Precedence: p}, nil
		}
	}

	return nil, plogerr.New(plogerr.LockFailed, "no eligible lock script succeeded")
}

// runLock executes a single eligible lock script and reports whether it
// succeeded, along with its check_count at the time of the run.
func runLock(cfg Config, sCur *kvstore.Store, seed [][]byte, lock entry.Lock) (bool, uint64, error) {
	prog, err := cfg.VM.LoadLock(lock.Script)
	if err != nil {
		return false, 0, err
	}

	h := script.NewHost(sCur, lock.Branch, true)
	h.SeedStack(seed)

	ok, err := prog.Run(h, cfg.Fuel)
	if err != nil {
		return false, 0, err
	}
	return ok, h.CheckCount(), nil
}

// eligibleLocks filters locks to those whose branch is a prefix of C, then
// sorts root-to-leaf (shallower branch first), with ties broken by
// original order — a stable sort over the already-filtered slice.
func eligibleLocks(locks []entry.Lock, c keypath.Path) []entry.Lock {
	var out []entry.Lock
	for _, l := range locks {
		if c.InBranch(l.Branch) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Branch.Depth() < out[j].Branch.Depth()
	})
	return out
}

func structuralCheck(priorEntries []*entry.Entry, proposed *entry.Entry, code cid.Code) error {
	if proposed.Version != entry.V1 {
		return plogerr.New(plogerr.MalformedEntry, "unsupported entry version")
	}

	for _, op := range proposed.Ops {
		if _, err := keypath.Parse(string(op.Key)); err != nil {
			return plogerr.Wrap(plogerr.InvalidKeyPath, "op key", err)
		}
	}
	for _, l := range proposed.Locks {
		if _, err := keypath.Parse(string(l.Branch)); err != nil {
			return plogerr.Wrap(plogerr.InvalidKeyPath, "lock branch", err)
		}
		if !l.Branch.IsBranch() {
			return plogerr.New(plogerr.InvalidKeyPath, "lock branch must be a branch path")
		}
	}

	if proposed.IsGenesis() {
		if proposed.Prev.IsZero() {
			// Non-fork genesis: no prior entries, no parent.
			if len(priorEntries) != 0 {
				return plogerr.New(plogerr.BrokenChain, "non-fork genesis entry must not carry prior entries")
			}
			return nil
		}
		// Fork-first genesis: priorEntries is the parent plog's own
		// foot-to-head entries; prev must match the parent's head CID.
		if len(priorEntries) == 0 {
			return plogerr.New(plogerr.BrokenChain, "fork-first genesis entry requires the parent's entries")
		}
		parentHead := priorEntries[len(priorEntries)-1]
		parentHeadCID, err := parentHead.CID(code)
		if err != nil {
			return plogerr.Wrap(plogerr.MalformedEntry, "hash parent head", err)
		}
		if !proposed.Prev.Equal(parentHeadCID) {
			return plogerr.New(plogerr.BrokenChain, "prev does not match the parent's head CID")
		}
		return nil
	}

	if len(priorEntries) == 0 {
		return plogerr.New(plogerr.BrokenChain, "non-genesis entry requires prior entries")
	}

	head := priorEntries[len(priorEntries)-1]
	if proposed.Seqno != head.Seqno+1 {
		return plogerr.New(plogerr.BrokenChain, "seqno is not contiguous with the prior head")
	}

	headCID, err := head.CID(code)
	if err != nil {
		return plogerr.Wrap(plogerr.MalformedEntry, "hash prior head", err)
	}
	if !proposed.Prev.Equal(headCID) {
		return plogerr.New(plogerr.BrokenChain, "prev does not match the prior head's CID")
	}

	if proposed.Seqno < 2 {
		if !proposed.Lipmaa.IsZero() {
			return plogerr.New(plogerr.BrokenChain, "lipmaa must be ⊥ for seqno < 2")
		}
		return nil
	}

	predecessor := lipmaa.Predecessor(proposed.Seqno)
	if predecessor >= uint64(len(priorEntries)) {
		return plogerr.New(plogerr.BrokenChain, "lipmaa predecessor is out of range")
	}
	wantCID, err := priorEntries[predecessor].CID(code)
	if err != nil {
		return plogerr.Wrap(plogerr.MalformedEntry, "hash lipmaa predecessor", err)
	}
	if !proposed.Lipmaa.Equal(wantCID) {
		return plogerr.New(plogerr.BrokenChain, "lipmaa CID does not match the predecessor entry")
	}

	return nil
}
