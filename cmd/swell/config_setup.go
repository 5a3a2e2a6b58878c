package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"swell/internal/config"
)

// loadFileConfig resolves the swell.toml for this invocation. An explicit
// --config path must parse; otherwise the nearest manifest in the parent
// chain is used, and its absence leaves every setting at its default.
func loadFileConfig(cmd *cobra.Command) (config.File, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.File{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	found, ok, err := config.Find(".")
	if err != nil {
		return config.File{}, err
	}
	if !ok {
		return config.File{}, nil
	}
	return config.Load(found)
}
