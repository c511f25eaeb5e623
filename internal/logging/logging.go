// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging wires the structured logging every core package accepts
// as an optional dependency, defaulting to a no-op logger rather than a
// package-level global.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Nop returns a logger that discards everything, the default for every
// constructor in this module that takes an optional *zap.Logger.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// OrNop returns l unchanged if non-nil, otherwise Nop(). Every core
// constructor that accepts a *zap.Logger option should route it through
// this so callers never need a nil check.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// New builds a production-style JSON logger at the given level, for
// cmd/plogctl and other consumers that want real output instead of the
// library default.
func New(levelName string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
