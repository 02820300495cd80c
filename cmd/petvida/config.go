// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/petvida/petvida/internal/config"
	"github.com/petvida/petvida/internal/xdg"
)

// NewConfigCmd creates the config subcommand and its children.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [FILE]",
		Short: "Check a config file against the schema",
		Long: `Check FILE, the --config file or the default config file against
the config schema and report the first problem found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigValidate,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	return cmd
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		var err error
		if path, err = xdg.ConfigFile(); err != nil {
			return err
		}
	}

	//nolint:gosec // G304: path is chosen by the operator
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return oops.Code(config.CodeInvalid).With("path", path).Errorf("config file %s does not exist", path)
	}
	if err != nil {
		return oops.Code(config.CodeInvalid).With("path", path).Wrap(err)
	}
	if err := config.ValidateFile(data); err != nil {
		return oops.With("path", path).Wrap(err)
	}
	cmd.Printf("%s is valid\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Sources{
		File:    configFile,
		EnvFile: envFile,
		Flags:   cmd.Flags(),
	})
	if err != nil {
		return err
	}
	data, err := config.Show(*cfg)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		cmd.PrintErrf("warning: %v\n", err)
	}
	return nil
}
