// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package refvm

import "github.com/luxfi/plog/internal/varint"

// Opcode is one instruction in the reference bytecode format. The
// instruction set is intentionally tiny: enough to express the lock/unlock
// scripts in the end-to-end delegation, recovery, and fork scenarios, not a
// general-purpose language.
type Opcode byte

const (
	// OpPushConst pushes a literal byte string onto the operand stack.
	// Encoding: uvarint(len) ++ bytes.
	OpPushConst Opcode = 0x01
	// OpCallHost invokes one of the fixed wacc host imports by index,
	// popping its argument (the key-path bytes) off the operand stack
	// first, except for _pop which takes none. Encoding: uvarint(index).
	OpCallHost Opcode = 0x02
	// OpDup duplicates the top of the operand stack.
	OpDup Opcode = 0x03
	// OpDrop discards the top of the operand stack.
	OpDrop Opcode = 0x04
	// OpJumpIfZero pops the top of the operand stack and, if it is the
	// empty byte string, sets the program counter to the given absolute
	// byte offset. Encoding: uvarint(offset).
	OpJumpIfZero Opcode = 0x05
	// OpReturn halts execution normally.
	OpReturn Opcode = 0x06
	// OpBranch computes branch(rel) against the host's context branch and
	// pushes the resulting key-path string onto the operand stack.
	// Encoding: uvarint(len) ++ rel bytes.
	OpBranch Opcode = 0x07
	// OpSucceeded pushes a truthy (non-empty) byte string onto the operand
	// stack if the top of the host's return stack is currently a SUCCESS
	// marker, or an empty (falsy) one otherwise. Combined with
	// OpJumpIfZero, this lets a script short-circuit an OR chain of
	// check_* calls: jump past the early return when the prior attempt
	// did not succeed.
	OpSucceeded Opcode = 0x08
)

// importOrder fixes the by-index import table referenced by OpCallHost,
// mirroring the wacc ABI's import ordering.
var importOrder = []string{
	"_push",
	"_pop",
	"_check_eq",
	"_check_preimage",
	"_check_signature",
}

// ImportIndex returns the OpCallHost index for a wacc import name, for use
// by assemblers. The second return value is false for unknown names.
func ImportIndex(name string) (int, bool) {
	for i, n := range importOrder {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// PushConst assembles an OpPushConst instruction.
func PushConst(b []byte) []byte {
	out := []byte{byte(OpPushConst)}
	return varint.PutBytes(out, b)
}

// CallHost assembles an OpCallHost instruction for the named import.
func CallHost(name string) []byte {
	idx, ok := ImportIndex(name)
	if !ok {
		panic("refvm: unknown import: " + name)
	}
	out := []byte{byte(OpCallHost)}
	return varint.PutUvarint(out, uint64(idx))
}

// Dup assembles an OpDup instruction.
func Dup() []byte { return []byte{byte(OpDup)} }

// Drop assembles an OpDrop instruction.
func Drop() []byte { return []byte{byte(OpDrop)} }

// JumpIfZero assembles an OpJumpIfZero instruction targeting the given
// absolute byte offset into the assembled program.
func JumpIfZero(offset int) []byte {
	out := []byte{byte(OpJumpIfZero)}
	return varint.PutUvarint(out, uint64(offset))
}

// Return assembles an OpReturn instruction.
func Return() []byte { return []byte{byte(OpReturn)} }

// Succeeded assembles an OpSucceeded instruction.
func Succeeded() []byte { return []byte{byte(OpSucceeded)} }

// Branch assembles an OpBranch instruction.
func Branch(rel string) []byte {
	out := []byte{byte(OpBranch)}
	return varint.PutBytes(out, []byte(rel))
}

// Assemble concatenates instruction fragments into a single script.
func Assemble(instrs ...[]byte) []byte {
	var out []byte
	for _, i := range instrs {
		out = append(out, i...)
	}
	return out
}
