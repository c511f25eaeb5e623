// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/luxfi/plog/cidstore"
	"github.com/luxfi/plog/plogcfg"
	"github.com/luxfi/plog/script/refvm"
	"github.com/luxfi/plog/validator"
)

func openStore(dir string) (*cidstore.BadgerStore, error) {
	return cidstore.OpenBadgerStore(filepath.Join(dir, "badger"))
}

func buildCfg() *plogcfg.Config {
	return plogcfg.New(plogcfg.WithLogLevel(logLevelFlag))
}

// genesisLockScript is the distinguished non-fork genesis lock every
// plogctl-minted log uses: check_signature("/ephemeral").
func genesisLockScript() []byte {
	return refvm.CheckSignatureScript("/ephemeral")
}

func validatorConfig(cfg *plogcfg.Config, logger *zap.Logger) validator.Config {
	return validator.Config{
		VM:                cfg.NewRefVM(),
		Fuel:              cfg.VMFuelPerExecution,
		HashCode:          cfg.HashAlgorithm,
		GenesisLockScript: genesisLockScript(),
		Logger:            logger,
	}
}
