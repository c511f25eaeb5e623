// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxfi/plog/entry"
	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/lipmaa"
	"github.com/luxfi/plog/plog"
	"github.com/luxfi/plog/script/refvm"
	"github.com/luxfi/plog/validator"
	"github.com/luxfi/plog/value"
	"github.com/luxfi/plog/xcrypto"
)

func newAppendCmd() *cobra.Command {
	var key, val string
	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append an update(key, value) entry under the log's head lock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppend(cmd.Context(), key, val)
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "key-path to update, e.g. /profile/name")
	cmd.Flags().StringVar(&val, "value", "", "UTF-8 value to set")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func runAppend(ctx context.Context, key, val string) error {
	cfg := buildCfg()
	logger := cfg.Logger()

	s, err := loadState(dirFlag)
	if err != nil {
		return fmt.Errorf("load state (did you run init?): %w", err)
	}
	priv, err := s.privateKey()
	if err != nil {
		return err
	}
	cids, err := s.cids()
	if err != nil {
		return err
	}

	store, err := openStore(dirFlag)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	l := plog.Restore(s.vlad(), store, cfg.HashAlgorithm, cids, plog.WithLogger(logger))

	priorEntries, err := l.Iterate(ctx)
	if err != nil {
		return fmt.Errorf("load prior entries: %w", err)
	}
	head := priorEntries[len(priorEntries)-1]

	k, err := keypath.Parse(key)
	if err != nil {
		return fmt.Errorf("parse key: %w", err)
	}

	e := &entry.Entry{
		Version: entry.V1,
		VLAD:    l.VLAD(),
		Seqno:   head.Seqno + 1,
		Prev:    l.HeadCID(),
		Ops:     []entry.Op{entry.Update(k, value.Str(val))},
		Locks:   head.Locks,
		Unlock:  refvm.PushEntryThenProofUnlockScript(),
	}

	if e.Seqno >= 2 {
		predIdx := lipmaa.Predecessor(e.Seqno)
		predCID, err := priorEntries[predIdx].CID(cfg.HashAlgorithm)
		if err != nil {
			return fmt.Errorf("hash lipmaa predecessor: %w", err)
		}
		e.Lipmaa = predCID
	}

	erased, err := entry.EncodeErased(e)
	if err != nil {
		return fmt.Errorf("erase entry: %w", err)
	}
	e.Proof = xcrypto.SignSecp256k1(priv, erased)

	vcfg := validatorConfig(cfg, logger)
	result, err := validator.Validate(ctx, priorEntries, e, vcfg)
	if err != nil {
		return fmt.Errorf("entry did not validate: %w", err)
	}

	newCID, err := l.Append(ctx, e)
	if err != nil {
		return fmt.Errorf("persist entry: %w", err)
	}

	s.CIDs = append(s.CIDs, newCID.String())
	if err := saveState(dirFlag, s); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	logger.Info("entry accepted",
		zap.Uint64("seqno", e.Seqno),
		zap.String("cid", newCID.String()),
		zap.Int("branch_depth", result.Precedence.BranchDepth),
	)
	fmt.Printf("seqno %d accepted: %s\n", e.Seqno, newCID.String())
	return nil
}
