// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxfi/plog/cid"
	"github.com/luxfi/plog/entry"
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/plog"
	"github.com/luxfi/plog/script/refvm"
	"github.com/luxfi/plog/validator"
	"github.com/luxfi/plog/value"
	"github.com/luxfi/plog/xcrypto"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Mint a new self-signed genesis entry and start a log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context())
		},
	}
}

func runInit(ctx context.Context) error {
	cfg := buildCfg()
	logger := cfg.Logger()

	priv, pub, err := xcrypto.GenerateSecp256k1()
	if err != nil {
		return fmt.Errorf("generate genesis key: %w", err)
	}

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate vlad nonce: %w", err)
	}
	vlad := cid.NewVLAD(pub, nonce)

	e := &entry.Entry{
		Version: entry.V1,
		VLAD:    vlad,
		Seqno:   0,
		Ops:     []entry.Op{entry.Update(keypath.MustParse("/ephemeral"), value.Data(pub))},
		Locks:   []entry.Lock{{Branch: keypath.Root, Script: genesisLockScript()}},
		Unlock:  refvm.PushEntryThenProofUnlockScript(),
	}

	erased, err := entry.EncodeErased(e)
	if err != nil {
		return fmt.Errorf("erase genesis entry: %w", err)
	}
	e.Proof = xcrypto.SignSecp256k1(priv, erased)

	vcfg := validatorConfig(cfg, logger)
	if _, err := validator.Validate(ctx, nil, e, vcfg); err != nil {
		return fmt.Errorf("genesis entry did not validate: %w", err)
	}

	store, err := openStore(dirFlag)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	l := plog.New(vlad, store, cfg.HashAlgorithm, plog.WithLogger(logger))
	headCID, err := l.Append(ctx, e)
	if err != nil {
		return fmt.Errorf("persist genesis entry: %w", err)
	}

	s := &state{
		VLAD:    base58.Encode(vlad),
		CIDs:    []string{headCID.String()},
		PrivKey: hex.EncodeToString(priv.Serialize()),
	}
	if err := saveState(dirFlag, s); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	logger.Info("genesis entry accepted", zap.String("vlad", s.VLAD), zap.String("cid", headCID.String()))
	fmt.Printf("vlad: %s\ngenesis cid: %s\n", s.VLAD, headCID.String())
	return nil
}
