// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/petvida/petvida/internal/config"
)

// Global flags available to all subcommands.
var (
	configFile string
	envFile    string
)

// NewRootCmd creates the root command for the PetVida CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "petvida",
		Short: "PetVida - clinic records from the terminal",
		Long: `PetVida keeps a veterinary clinic's owners, animals, appointments
and surgeries in PostgreSQL, behind role-based logins for administrators,
clients and veterinarians.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG config dir)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file path (default: ./.env when present)")
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewUnlockCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// loadConfig resolves and validates the configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.Sources{
		File:    configFile,
		EnvFile: envFile,
		Flags:   cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
