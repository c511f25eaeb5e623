// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command plogctl is a minimal demonstration consumer of the plog core:
// it mints a genesis entry, appends update entries under its governing
// lock, and prints a log's history. It is not a production key-management
// or replication tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dirFlag string
var logLevelFlag string

func main() {
	root := &cobra.Command{
		Use:   "plogctl",
		Short: "Inspect and append to a provenance log",
	}
	root.PersistentFlags().StringVar(&dirFlag, "dir", "./plogdata", "directory holding the log's Badger store and index")
	root.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "zap log level (debug, info, warn, error)")

	root.AddCommand(newInitCmd())
	root.AddCommand(newAppendCmd())
	root.AddCommand(newShowCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "plogctl:", err)
		os.Exit(1)
	}
}
