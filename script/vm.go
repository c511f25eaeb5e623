// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package script

import "github.com/luxfi/plog/keypath"

// VM loads compiled lock/unlock scripts for execution against a Host. Any
// sandboxed bytecode engine can satisfy this interface; script/refvm
// supplies a small reference interpreter so the validator is exercised
// end-to-end without an external dependency.
type VM interface {
	// LoadLock compiles a lock script for repeated execution.
	LoadLock(script []byte) (LockProgram, error)
	// LoadUnlock compiles an unlock script for execution.
	LoadUnlock(script []byte) (UnlockProgram, error)
}

// LockProgram runs a compiled lock script against a Host, within a fuel
// budget. ok reports whether the script left a SUCCESS marker on top of
// the return stack; the caller still consults h.Succeeded() for the
// marker's payload.
type LockProgram interface {
	Run(h *Host, fuel uint64) (ok bool, err error)
}

// UnlockProgram runs a compiled unlock script against a Host. Unlock
// scripts may only push/pop; any attempt to call a check_* import must
// surface as an error (the host-side guard, enforced by allowChecks=false
// on the Host passed in).
type UnlockProgram interface {
	Run(h *Host, fuel uint64) error
}

// HostFunc is a single import table entry: a host function a VM's
// bytecode can invoke by name, given the current Host and the raw
// argument bytes the script passed (already resolved from VM memory by
// the VM implementation).
type HostFunc func(h *Host, arg []byte) error

// ImportTable is the name-keyed registry of host functions exposed to
// scripts under the wacc import module, mirroring the address-keyed
// precompile dispatch tables used elsewhere in this lineage.
type ImportTable map[string]HostFunc

// DefaultImports returns the wacc import table: _push, _pop, _check_eq,
// _check_preimage, _check_signature. _branch is not in the table: it
// returns a key-path rather than simply succeeding or failing, so VM
// implementations handle it themselves (refvm through its OpBranch
// instruction, which calls Host.Branch directly).
func DefaultImports() ImportTable {
	return ImportTable{
		"_push": func(h *Host, arg []byte) error {
			k, err := keypath.Parse(string(arg))
			if err != nil {
				return err
			}
			return h.Push(k)
		},
		"_pop": func(h *Host, _ []byte) error {
			return h.Pop()
		},
		"_check_eq": func(h *Host, arg []byte) error {
			k, err := keypath.Parse(string(arg))
			if err != nil {
				return err
			}
			return h.CheckEq(k)
		},
		"_check_preimage": func(h *Host, arg []byte) error {
			k, err := keypath.Parse(string(arg))
			if err != nil {
				return err
			}
			return h.CheckPreimage(k)
		},
		"_check_signature": func(h *Host, arg []byte) error {
			k, err := keypath.Parse(string(arg))
			if err != nil {
				return err
			}
			return h.CheckSignature(k)
		},
	}
}
