// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"

	"github.com/luxfi/plog/cid"
)

// state is plogctl's on-disk bookkeeping: the CLI is a demonstration
// consumer, not a key-management product, so it keeps the signing key
// next to the log index in a single plaintext JSON file under --dir. A
// real deployment would never do this; it would hold the key in an HSM
// or OS keyring and only persist VLAD/head/seqno here.
type state struct {
	VLAD    string   `json:"vlad"`
	CIDs    []string `json:"cids"`
	PrivKey string   `json:"privkey_hex"`
}

func statePath(dir string) string {
	return filepath.Join(dir, "plogctl_state.json")
}

func loadState(dir string) (*state, error) {
	b, err := os.ReadFile(statePath(dir))
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	var s state
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &s, nil
}

func saveState(dir string, s *state) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	return os.WriteFile(statePath(dir), b, 0o600)
}

func (s *state) vlad() cid.VLAD {
	b, err := base58.Decode(s.VLAD)
	if err != nil {
		return nil
	}
	return cid.VLAD(b)
}

func (s *state) cids() ([]cid.CID, error) {
	out := make([]cid.CID, len(s.CIDs))
	for i, str := range s.CIDs {
		c, err := cid.ParseString(str)
		if err != nil {
			return nil, fmt.Errorf("parse stored cid %q: %w", str, err)
		}
		out[i] = c
	}
	return out, nil
}

func (s *state) privateKey() (*secp256k1.PrivateKey, error) {
	b, err := hex.DecodeString(s.PrivKey)
	if err != nil {
		return nil, fmt.Errorf("decode stored private key: %w", err)
	}
	return secp256k1.PrivKeyFromBytes(b), nil
}
