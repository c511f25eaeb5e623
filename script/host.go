// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package script defines the sandboxed script execution host that the
// validator drives: the four per-execution stores/stacks/counter named in
// the host spec, and the host functions a VM import table exposes to
// unlock/lock scripts.
package script

import (
	"bytes"

	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/kvstore"
	"github.com/luxfi/plog/plogerr"
	"github.com/luxfi/plog/xcrypto"
)

// Host is the per-execution environment exposed to a single script run. A
// fresh Host is constructed for the unlock script and for each eligible
// lock script attempt; nothing is shared across executions except the seed
// param_stack carried forward from unlock into every lock attempt.
type Host struct {
	paramStore *kvstore.Store
	paramStack [][]byte
	returnStack []Marker
	checkCount uint64

	branch      keypath.Path
	allowChecks bool
}

// NewHost constructs a Host bound to store as param_store and branch as
// the context branch returned by the branch() host function. allowChecks
// is false for unlock script execution (§4.6 step 3's host-side guard)
// unless the validator is configured with AllowCheckInUnlock, and true for
// lock script execution.
func NewHost(store *kvstore.Store, branch keypath.Path, allowChecks bool) *Host {
	return &Host{
		paramStore:  store,
		branch:      branch,
		allowChecks: allowChecks,
	}
}

// SeedStack primes param_stack, used to carry the unlock script's final
// stack σ into a lock script attempt.
func (h *Host) SeedStack(seed [][]byte) {
	h.paramStack = cloneStack(seed)
}

// ParamStack returns a defensive copy of the current param_stack, in
// bottom-to-top order.
func (h *Host) ParamStack() [][]byte {
	return cloneStack(h.paramStack)
}

// ReturnStack returns a defensive copy of the current return_stack.
func (h *Host) ReturnStack() []Marker {
	out := make([]Marker, len(h.returnStack))
	copy(out, h.returnStack)
	return out
}

// CheckCount returns the number of failed check_* attempts so far.
func (h *Host) CheckCount() uint64 {
	return h.checkCount
}

// Succeeded reports whether the top of return_stack is a SUCCESS marker,
// and if so returns it. This is the lock-success test from §4.6 step 7.
func (h *Host) Succeeded() (Marker, bool) {
	if len(h.returnStack) == 0 {
		return Marker{}, false
	}
	return h.returnStack[len(h.returnStack)-1], true
}

// Push looks up k in param_store and pushes its value bytes onto
// param_stack. It fails execution if k is absent.
func (h *Host) Push(k keypath.Path) error {
	v, ok := h.paramStore.Get(k)
	if !ok {
		return plogerr.New(plogerr.MissingKey, "push: "+string(k)+" not found in param_store")
	}
	h.paramStack = append(h.paramStack, v.Bytes())
	return nil
}

// Pop removes and discards the top of param_stack. It fails if empty.
func (h *Host) Pop() error {
	if len(h.paramStack) == 0 {
		return plogerr.New(plogerr.ScriptError, "pop: param_stack is empty")
	}
	h.paramStack = h.paramStack[:len(h.paramStack)-1]
	return nil
}

// Branch returns the key-path formed by concatenating the host's context
// branch with rel. It aborts if the executing script's associated branch
// is a leaf path.
func (h *Host) Branch(rel string) (keypath.Path, error) {
	if h.branch.IsLeaf() {
		return "", plogerr.New(plogerr.ScriptError, "branch: associated branch "+string(h.branch)+" is a leaf")
	}
	return h.branch.Join(rel), nil
}

// CheckEq compares param_store[k] against the top of param_stack
// byte-wise. See host spec for the snapshot/success/failure protocol.
func (h *Host) CheckEq(k keypath.Path) error {
	if !h.allowChecks {
		return errChecksForbidden()
	}
	v, ok := h.paramStore.Get(k)
	h.attemptCheck(func(stack [][]byte) (bool, [][]byte) {
		if !ok || len(stack) == 0 {
			return false, nil
		}
		top := stack[len(stack)-1]
		if !bytes.Equal(v.Bytes(), top) {
			return false, nil
		}
		return true, stack[:len(stack)-1]
	})
	return nil
}

// CheckPreimage interprets param_store[k] as a multihash and hashes the
// top of param_stack with the same algorithm, succeeding iff the digests
// match.
func (h *Host) CheckPreimage(k keypath.Path) error {
	if !h.allowChecks {
		return errChecksForbidden()
	}
	v, ok := h.paramStore.Get(k)
	h.attemptCheck(func(stack [][]byte) (bool, [][]byte) {
		if !ok || len(stack) == 0 {
			return false, nil
		}
		top := stack[len(stack)-1]
		match, err := xcrypto.VerifyPreimage(v.Bytes(), top)
		if err != nil || !match {
			return false, nil
		}
		return true, stack[:len(stack)-1]
	})
	return nil
}

// CheckSignature interprets param_store[k] as a multi-format public key.
// It pops SUCCESS(*) markers (if any) off the top of param_stack until a
// non-marker entry is reached, then expects (top = signature, below =
// message). It succeeds iff the signature validates over the message
// under the public key.
func (h *Host) CheckSignature(k keypath.Path) error {
	if !h.allowChecks {
		return errChecksForbidden()
	}
	v, ok := h.paramStore.Get(k)
	h.attemptCheck(func(stack [][]byte) (bool, [][]byte) {
		if !ok {
			return false, nil
		}
		for len(stack) > 0 {
			if _, isMarker := DecodeMarker(stack[len(stack)-1]); !isMarker {
				break
			}
			stack = stack[:len(stack)-1]
		}
		if len(stack) < 2 {
			return false, nil
		}
		sig := stack[len(stack)-1]
		msg := stack[len(stack)-2]
		valid, err := xcrypto.VerifySignature(v.Bytes(), sig, msg)
		if err != nil || !valid {
			return false, nil
		}
		return true, stack[:len(stack)-2]
	})
	return nil
}

// attemptCheck implements the common check_* protocol: snapshot
// param_stack, evaluate eval against the snapshot, commit the new stack
// and push a SUCCESS marker on success, or discard the snapshot and bump
// check_count on failure.
func (h *Host) attemptCheck(eval func(stackSnapshot [][]byte) (ok bool, newStack [][]byte)) {
	snapshot := cloneStack(h.paramStack)
	ok, newStack := eval(snapshot)
	if ok {
		h.paramStack = newStack
		h.returnStack = append(h.returnStack, Success(h.checkCount))
		return
	}
	h.checkCount++
}

func errChecksForbidden() error {
	return plogerr.New(plogerr.ScriptError, "check_* is not permitted in this script execution")
}

func cloneStack(s [][]byte) [][]byte {
	out := make([][]byte, len(s))
	for i, b := range s {
		cp := make([]byte, len(b))
		copy(cp, b)
		out[i] = cp
	}
	return out
}
