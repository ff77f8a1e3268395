package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/mp3norm/internal/config"
)

func newConfigCommand(flags *rootFlags) *cobra.Command {
	var writePath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if writePath != "" {
				if err := settings.Save(writePath); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote configuration to %s\n", writePath)
				return nil
			}

			_, err = settings.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&writePath, "write", "", "Save the configuration to this file instead of printing it")
	return cmd
}
