// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package refvm

// CheckSignatureScript assembles a lock script equivalent to
// check_signature(key): push the key-path, call _check_signature, return.
// This is the shape of the distinguished non-fork genesis lock
// (check_signature("/ephemeral")) and of the simplest delegation locks in
// the end-to-end scenarios.
func CheckSignatureScript(key string) []byte {
	return Assemble(
		PushConst([]byte(key)),
		CallHost("_check_signature"),
		Return(),
	)
}

// CheckEqScript assembles a lock script equivalent to check_eq(key).
func CheckEqScript(key string) []byte {
	return Assemble(
		PushConst([]byte(key)),
		CallHost("_check_eq"),
		Return(),
	)
}

// CheckPreimageScript assembles a lock script equivalent to
// check_preimage(key).
func CheckPreimageScript(key string) []byte {
	return Assemble(
		PushConst([]byte(key)),
		CallHost("_check_preimage"),
		Return(),
	)
}

// BranchCheckSignatureScript assembles a lock script equivalent to
// check_signature(branch(rel)), used by delegation and fork-first locks
// whose key depends on the lock's associated branch.
func BranchCheckSignatureScript(rel string) []byte {
	return Assemble(
		Branch(rel),
		CallHost("_check_signature"),
		Return(),
	)
}

// OrChainScript assembles a lock script that tries each of checks in
// order, stopping at the first one whose call leaves a SUCCESS marker on
// top of the return stack (check_eq/check_preimage/check_signature are the
// only legal entries). Each call is expressed as (importName, keyPath).
// This is the shape of a recovery-style lock: several independent ways to
// satisfy it, tried left to right. Jump targets are assembled forward
// under the assumption that every offset used stays under 128 (a one-byte
// uvarint); the helper panics if a target would need a wider encoding.
func OrChainScript(checks ...[2]string) []byte {
	var code []byte
	for i, c := range checks {
		importName, key := c[0], c[1]
		code = append(code, PushConst([]byte(key))...)
		code = append(code, CallHost(importName)...)

		if i == len(checks)-1 {
			code = append(code, Return()...)
			continue
		}

		succeeded := Succeeded()
		placeholder := JumpIfZero(0)
		ret := Return()
		target := len(code) + len(succeeded) + len(placeholder) + len(ret)
		jump := JumpIfZero(target)
		if len(jump) != len(placeholder) {
			panic("refvm: OrChainScript jump target needs a wider uvarint than assumed")
		}

		code = append(code, succeeded...)
		code = append(code, jump...)
		code = append(code, ret...)
	}
	return code
}

// PushEntryThenProofUnlockScript assembles the canonical unlock script used
// throughout the scenarios: push "/entry/" then push "/entry/proof", the
// order check_signature and check_preimage expect (message below,
// signature/preimage on top).
func PushEntryThenProofUnlockScript() []byte {
	return Assemble(
		PushConst([]byte("/entry/")),
		CallHost("_push"),
		PushConst([]byte("/entry/proof")),
		CallHost("_push"),
		Return(),
	)
}
