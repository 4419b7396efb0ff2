package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/fsforge/internal/config"
)

func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a manifest without applying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := config.ParseManifest(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d item(s) OK\n", configPath, len(manifest.Items))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to manifest file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
