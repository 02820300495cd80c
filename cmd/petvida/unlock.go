// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/petvida/petvida/internal/auth"
)

// NewUnlockCmd creates the unlock subcommand.
func NewUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock HANDLE",
		Short: "Unlock an account locked after failed logins",
		Long: `Clear the lock and the failed-attempt counter of HANDLE. Locked
accounts stay locked until an administrator unlocks them from the admin menu
or an operator runs this command.`,
		Args: cobra.ExactArgs(1),
		RunE: runUnlock,
	}
}

func runUnlock(cmd *cobra.Command, args []string) error {
	handle := args[0]
	if err := auth.ValidateHandle(handle); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, logOut, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(logger, "log file", logOut)

	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.auth.Unlock(ctx, nil, handle); err != nil {
		return err
	}
	cmd.Printf("Account %s unlocked\n", handle)
	return nil
}
