// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package plogcfg assembles the knobs a validation run or a new plog
// deployment needs, built through functional options the way the domain
// stack's module Configure(...) methods are, but without any of that
// machinery's EVM-chain-config coupling.
package plogcfg

import (
	"go.uber.org/zap"

	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/internal/logging"
	"github.com/luxfi/plog/script"
	"github.com/luxfi/plog/script/refvm"
	"github.com/luxfi/plog/xcrypto"
)

// Defaults match SPEC_FULL.md §6: generous but non-zero bounds, strict
// unlock hermeticity, blake3 for new CIDs, secp256k1 for new genesis keys.
const (
	DefaultMaxScriptBytes     = 64 * 1024
	DefaultVMFuelPerExecution = 1 << 20
	DefaultHashAlgorithm      = cid.CodeBlake3
	DefaultSignatureAlgorithm = xcrypto.TagSecp256k1Pub
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
)

// Config bundles every parameter a validation run or a new genesis entry
// needs beyond the entries themselves.
type Config struct {
	// MaxScriptBytes bounds lock/unlock script size; 0 means unbounded.
	MaxScriptBytes int
	// VMFuelPerExecution bounds VM steps per script invocation.
	VMFuelPerExecution uint64
	// AllowCheckInUnlock relaxes the unlock-script hermeticity guard.
	AllowCheckInUnlock bool
	// HashAlgorithm is the multihash code used for new CIDs.
	HashAlgorithm cid.Code
	// SignatureAlgorithm is the xcrypto.Tag used when minting new genesis
	// keys, i.e. which curve NewGenesisKeypair-style callers should reach
	// for by default.
	SignatureAlgorithm xcrypto.Tag
	// LogLevel parses as a zapcore.Level name ("debug", "info", "warn", ...).
	LogLevel string
	// LogFormat is currently informational; New always builds the
	// production JSON encoder, matching the rest of this lineage's
	// structured-log convention.
	LogFormat string

	logger *zap.Logger
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithMaxScriptBytes overrides MaxScriptBytes.
func WithMaxScriptBytes(n int) Option { return func(c *Config) { c.MaxScriptBytes = n } }

// WithVMFuelPerExecution overrides VMFuelPerExecution.
func WithVMFuelPerExecution(fuel uint64) Option {
	return func(c *Config) { c.VMFuelPerExecution = fuel }
}

// WithAllowCheckInUnlock overrides AllowCheckInUnlock.
func WithAllowCheckInUnlock(allow bool) Option {
	return func(c *Config) { c.AllowCheckInUnlock = allow }
}

// WithHashAlgorithm overrides HashAlgorithm.
func WithHashAlgorithm(code cid.Code) Option { return func(c *Config) { c.HashAlgorithm = code } }

// WithSignatureAlgorithm overrides SignatureAlgorithm.
func WithSignatureAlgorithm(tag xcrypto.Tag) Option {
	return func(c *Config) { c.SignatureAlgorithm = tag }
}

// WithLogLevel overrides LogLevel.
func WithLogLevel(level string) Option { return func(c *Config) { c.LogLevel = level } }

// WithLogFormat overrides LogFormat.
func WithLogFormat(format string) Option { return func(c *Config) { c.LogFormat = format } }

// WithLogger injects an already-built logger, bypassing LogLevel/LogFormat.
// Mainly for tests that want a captured logger or a caller that already
// has its own zap.Logger to share.
func WithLogger(l *zap.Logger) Option { return func(c *Config) { c.logger = l } }

// New builds a Config from defaults plus the given options.
func New(opts ...Option) *Config {
	c := &Config{
		MaxScriptBytes:      DefaultMaxScriptBytes,
		VMFuelPerExecution:  DefaultVMFuelPerExecution,
		AllowCheckInUnlock:  false,
		HashAlgorithm:       DefaultHashAlgorithm,
		SignatureAlgorithm:  DefaultSignatureAlgorithm,
		LogLevel:            DefaultLogLevel,
		LogFormat:           DefaultLogFormat,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Logger returns the configured logger, building one from LogLevel on
// first use if WithLogger was never called. Build errors (an unparsable
// LogLevel) fall back to a no-op logger rather than panicking.
func (c *Config) Logger() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}
	l, err := logging.New(c.LogLevel)
	if err != nil {
		l = logging.Nop()
	}
	c.logger = l
	return c.logger
}

// NewRefVM builds the reference script.VM this Config implies: refvm over
// the default wacc import table, bounded by MaxScriptBytes.
func (c *Config) NewRefVM() script.VM {
	return refvm.New(script.DefaultImports(), c.MaxScriptBytes)
}
