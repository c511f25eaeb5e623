// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package refvm

import (
	"github.com/luxfi/plog/internal/varint"
	"github.com/luxfi/plog/plogerr"
	"github.com/luxfi/plog/script"
)

// interpret runs code against h, charging one unit of fuel per executed
// instruction. It shares its instruction loop between lock and unlock
// execution; the two differ only in which Host (allowChecks true/false) the
// caller constructed.
func interpret(vm *VM, h *script.Host, code []byte, fuel uint64) error {
	var operands [][]byte
	pc := 0

	for pc < len(code) {
		if fuel == 0 {
			return plogerr.New(plogerr.ScriptError, "vm_fuel_per_execution exhausted")
		}
		fuel--

		op := Opcode(code[pc])
		pc++

		switch op {
		case OpPushConst:
			b, rest, err := varint.ReadBytes(code[pc:])
			if err != nil {
				return trap(err)
			}
			pc += len(code[pc:]) - len(rest)
			operands = append(operands, b)

		case OpBranch:
			rel, rest, err := varint.ReadBytes(code[pc:])
			if err != nil {
				return trap(err)
			}
			pc += len(code[pc:]) - len(rest)

			p, err := h.Branch(string(rel))
			if err != nil {
				return err
			}
			operands = append(operands, []byte(p))

		case OpCallHost:
			idx, rest, err := varint.ReadUvarint(code[pc:])
			if err != nil {
				return trap(err)
			}
			pc += len(code[pc:]) - len(rest)

			if int(idx) >= len(importOrder) {
				return plogerr.New(plogerr.ScriptError, "unknown host import index")
			}
			name := importOrder[idx]
			fn, ok := vm.imports[name]
			if !ok {
				return plogerr.New(plogerr.ScriptError, "import not wired: "+name)
			}

			var arg []byte
			if name != "_pop" {
				arg, operands, err = pop(operands)
				if err != nil {
					return trap(err)
				}
			}
			if err := fn(h, arg); err != nil {
				return err
			}

		case OpDup:
			if len(operands) == 0 {
				return plogerr.New(plogerr.ScriptError, "dup: operand stack empty")
			}
			top := operands[len(operands)-1]
			operands = append(operands, top)

		case OpDrop:
			var err error
			_, operands, err = pop(operands)
			if err != nil {
				return trap(err)
			}

		case OpJumpIfZero:
			offset, rest, err := varint.ReadUvarint(code[pc:])
			if err != nil {
				return trap(err)
			}
			pc += len(code[pc:]) - len(rest)

			var top []byte
			top, operands, err = pop(operands)
			if err != nil {
				return trap(err)
			}
			if len(top) == 0 {
				pc = int(offset)
			}

		case OpSucceeded:
			if _, ok := h.Succeeded(); ok {
				operands = append(operands, []byte{1})
			} else {
				operands = append(operands, nil)
			}

		case OpReturn:
			return nil

		default:
			return plogerr.New(plogerr.ScriptError, "unknown opcode")
		}
	}
	return nil
}

func pop(stack [][]byte) ([]byte, [][]byte, error) {
	if len(stack) == 0 {
		return nil, stack, plogerr.New(plogerr.ScriptError, "operand stack underflow")
	}
	top := stack[len(stack)-1]
	return top, stack[:len(stack)-1], nil
}

func trap(err error) error {
	return plogerr.Wrap(plogerr.ScriptError, "malformed bytecode", err)
}
