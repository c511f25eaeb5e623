// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/plog/plog"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print a log's accepted entries, foot to head",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context())
		},
	}
}

func runShow(ctx context.Context) error {
	cfg := buildCfg()

	s, err := loadState(dirFlag)
	if err != nil {
		return fmt.Errorf("load state (did you run init?): %w", err)
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

	l := plog.Restore(s.vlad(), store, cfg.HashAlgorithm, cids)
	entries, err := l.Iterate(ctx)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	fmt.Printf("vlad: %s\n", s.VLAD)
	for i, e := range entries {
		fmt.Printf("seqno %d  cid %s\n", e.Seqno, cids[i].String())
		for _, op := range e.Ops {
			fmt.Printf("  %s %s\n", op.Kind, op.Key)
		}
	}
	return nil
}
