// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package refvm is a small fuel-metered stack-bytecode interpreter that
// implements script.VM. It is a reference implementation, not a WASM
// engine: real deployments plug in a sandboxed WebAssembly runtime behind
// the same interface. refvm exists so the host and validator have a
// concrete, testable VM to run against.
package refvm

import (
	"github.com/luxfi/plog/plogerr"
	"github.com/luxfi/plog/script"
)

// VM is a refvm instance bound to a fixed import table and script size
// limit.
type VM struct {
	imports        script.ImportTable
	maxScriptBytes int
}

// New constructs a VM. maxScriptBytes of 0 means unbounded.
func New(imports script.ImportTable, maxScriptBytes int) *VM {
	return &VM{imports: imports, maxScriptBytes: maxScriptBytes}
}

// LoadLock validates script size and wraps it as a LockProgram.
func (vm *VM) LoadLock(bytecode []byte) (script.LockProgram, error) {
	if err := vm.checkSize(bytecode); err != nil {
		return nil, err
	}
	return &lockProgram{vm: vm, code: bytecode}, nil
}

// LoadUnlock validates script size and wraps it as an UnlockProgram.
func (vm *VM) LoadUnlock(bytecode []byte) (script.UnlockProgram, error) {
	if err := vm.checkSize(bytecode); err != nil {
		return nil, err
	}
	return &unlockProgram{vm: vm, code: bytecode}, nil
}

func (vm *VM) checkSize(bytecode []byte) error {
	if vm.maxScriptBytes > 0 && len(bytecode) > vm.maxScriptBytes {
		return plogerr.New(plogerr.ScriptError, "script exceeds max_script_bytes")
	}
	return nil
}

// lockProgram and unlockProgram wrap the same bytecode format; the
// distinction is only which Host the validator constructs around the run
// (allowChecks true for locks, false for unlock) and the two different
// script.LockProgram / script.UnlockProgram method signatures.
type lockProgram struct {
	vm   *VM
	code []byte
}

func (p *lockProgram) Run(h *script.Host, fuel uint64) (bool, error) {
	if err := interpret(p.vm, h, p.code, fuel); err != nil {
		return false, err
	}
	_, ok := h.Succeeded()
	return ok, nil
}

type unlockProgram struct {
	vm   *VM
	code []byte
}

func (p *unlockProgram) Run(h *script.Host, fuel uint64) error {
	return interpret(p.vm, h, p.code, fuel)
}
