// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package plogerr defines the provenance-log error taxonomy. Every error
// the core surfaces carries one of the Kind values below, so callers can
// branch on Kind without string matching.
package plogerr

import (
	"errors"
	"fmt"
)

// Kind classifies why validation or decoding failed.
type Kind string

const (
	// MalformedEntry covers codec errors, bad version, unknown field tags.
	MalformedEntry Kind = "malformed_entry"
	// InvalidKeyPath covers key-paths that fail the grammar in ops or locks.
	InvalidKeyPath Kind = "invalid_key_path"
	// BrokenChain covers prev/lipmaa CID mismatches and seqno discontinuity.
	BrokenChain Kind = "broken_chain"
	// ScriptError covers VM traps, fuel exhaustion, oversize scripts,
	// missing exports, and disallowed host calls.
	ScriptError Kind = "script_error"
	// LockFailed means every eligible lock script returned non-SUCCESS.
	LockFailed Kind = "lock_failed"
	// MissingKey means push/check_* referenced an absent key-path.
	MissingKey Kind = "missing_key"
	// SignatureInvalid is a check_signature failure surfaced to a caller
	// that wants the reason, even though the validator itself treats it as
	// a local check failure rather than an abort.
	SignatureInvalid Kind = "signature_invalid"
	// PreimageMismatch is a check_preimage failure, same treatment as
	// SignatureInvalid.
	PreimageMismatch Kind = "preimage_mismatch"
)

// Error is the concrete error type every exported plog function returns.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plog: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("plog: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, plogerr.New(plogerr.BrokenChain, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an *Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an *Error of the given kind that wraps a lower-level
// cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// OfKind reports whether err is a *Error of the given kind, unwrapping as
// needed.
func OfKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
