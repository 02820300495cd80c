// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/console"
	"github.com/petvida/petvida/internal/menu"
	"github.com/petvida/petvida/internal/observability"
	"github.com/petvida/petvida/internal/registration"
)

const metricsShutdownTimeout = 5 * time.Second

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the interactive clinic console",
		Long: `Connect to the database, apply pending migrations, create the
administrator account on first start and open the main menu.`,
		Args: cobra.NoArgs,
		RunE: runConsole,
	}
}

func runConsole(cmd *cobra.Command, _ []string) error {
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
	logger.InfoContext(ctx, "starting petvida",
		"version", version,
		"commit", commit,
		"log_format", cfg.Log.Format)

	var (
		a       *app
		srv     *observability.Server
		metrics *observability.Metrics
	)
	if cfg.Metrics.Addr != "" {
		srv = observability.NewServer(cfg.Metrics.Addr, func(ctx context.Context) bool {
			return a.pool.Ping(ctx) == nil
		}, logger)
		metrics = srv.Metrics()
	}

	a, err = openApp(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer a.Close()

	if srv != nil {
		if _, err := srv.Start(); err != nil {
			return oops.Code("METRICS_START_FAILED").With("addr", cfg.Metrics.Addr).Wrap(err)
		}
		defer stopServer(logger, srv)
	}

	in := console.Open(os.Stdin, cmd.OutOrStdout())
	defer closeQuietly(logger, "console", in)

	return runSession(ctx, a, in, cmd.OutOrStdout(), metrics)
}

// runSession guarantees an administrator exists and then runs the menus
// until the operator leaves.
func runSession(ctx context.Context, a *app, in console.LineReader, out io.Writer, metrics *observability.Metrics) error {
	boot, err := a.bootstrapper()
	if err != nil {
		return err
	}
	p := console.NewPrompter(in, out)
	created, err := boot.EnsureAdmin(ctx, adminPasswordPrompt(p, a.cfg.Admin.Handle))
	if err != nil {
		return err
	}
	if created {
		p.Printf("Administrator %q created.\n", a.cfg.Admin.Handle)
	}

	deps := menu.Deps{
		In:           in,
		Out:          out,
		Auth:         a.auth,
		Registration: a.registration,
		Records:      a.clinic,
		Maintenance:  a.migrator,
		Logger:       a.logger,
	}
	if metrics != nil {
		deps.Metrics = metrics
	}
	shell, err := menu.New(deps)
	if err != nil {
		return err
	}
	return shell.Run(ctx)
}

// adminPasswordPrompt asks the operator to choose the first administrator's
// password.
func adminPasswordPrompt(p *console.Prompter, handle string) auth.PasswordPrompt {
	return func(context.Context) (string, error) {
		p.Printf("No administrator account exists yet. Choose a password for %q.\n", handle)
		return registration.CollectNewPassword(p, "Administrator password")
	}
}

func stopServer(logger *slog.Logger, srv *observability.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Warn("error stopping observability server", "error", err)
	}
}
