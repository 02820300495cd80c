// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/petvida/petvida/internal/auth"
	authpg "github.com/petvida/petvida/internal/auth/postgres"
	"github.com/petvida/petvida/internal/clinic"
	clinicpg "github.com/petvida/petvida/internal/clinic/postgres"
	"github.com/petvida/petvida/internal/config"
	"github.com/petvida/petvida/internal/logging"
	"github.com/petvida/petvida/internal/observability"
	"github.com/petvida/petvida/internal/registration"
	"github.com/petvida/petvida/internal/store"
)

const serviceName = "petvida"

// setupLogging opens the configured log destination and installs the
// logger as the slog default. The caller closes the returned writer.
func setupLogging(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	out, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return nil, nil, oops.Code(config.CodeInvalid).With("field", "log.file").Wrap(err)
	}
	logger := logging.Setup(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   level,
		Writer:  out,
	})
	slog.SetDefault(logger)
	return logger, out, nil
}

// app holds the connected stores and services one command works with.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	migrator *store.Migrator

	accounts     *authpg.AccountRepository
	owners       *clinicpg.OwnerRepository
	animals      *clinicpg.AnimalRepository
	hasher       auth.PasswordHasher
	tx           *store.Transactor
	auth         *auth.Service
	clinic       *clinic.Service
	registration *registration.Workflow
}

// openApp connects to the database, applies pending migrations and builds
// the services. metrics may be nil when nothing scrapes them.
func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*app, error) {
	if metrics == nil {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}
	a := &app{cfg: cfg, logger: logger}
	if err := a.open(ctx, metrics); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) open(ctx context.Context, metrics *observability.Metrics) error {
	cfg, logger := a.cfg, a.logger
	var err error

	logger.InfoContext(ctx, "connecting to database", "url", cfg.Redacted().Database.URL)
	a.pool, err = store.Connect(ctx, cfg.Database.URL, store.ConnectOptions{
		Retries: cfg.Database.ConnectRetries,
		Backoff: cfg.Database.ConnectBackoff,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	a.migrator, err = store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	if err = a.migrator.Up(); err != nil {
		return oops.With("operation", "apply migrations").Wrap(err)
	}
	if v, _, verr := a.migrator.Version(); verr == nil {
		logger.InfoContext(ctx, "schema ready", "version", v)
	}

	a.tx = store.NewTransactor(a.pool)
	a.hasher = auth.NewArgon2idHasher()
	a.accounts = authpg.NewAccountRepository(a.pool)
	a.owners = clinicpg.NewOwnerRepository(a.pool)
	a.animals = clinicpg.NewAnimalRepository(a.pool)

	a.auth, err = auth.NewService(a.accounts, a.hasher,
		auth.WithLogger(logger),
		auth.WithLoginRecorder(metrics))
	if err != nil {
		return err
	}

	a.clinic, err = clinic.NewService(clinic.Repositories{
		Owners:       a.owners,
		Animals:      a.animals,
		Appointments: clinicpg.NewAppointmentRepository(a.pool),
		Surgeries:    clinicpg.NewSurgeryRepository(a.pool),
		Accounts:     a.accounts,
	}, logger)
	if err != nil {
		return err
	}

	a.registration, err = registration.NewWorkflow(registration.Deps{
		Accounts:    a.accounts,
		Owners:      a.owners,
		Animals:     a.animals,
		Hasher:      a.hasher,
		Transactor:  a.tx,
		Logger:      logger,
		Recorder:    metrics,
		AdminHandle: cfg.Admin.Handle,
	})
	return err
}

// bootstrapper guards the first administrator account.
func (a *app) bootstrapper() (*auth.Bootstrapper, error) {
	return auth.NewBootstrapper(a.accounts, a.hasher, a.tx, a.cfg.Admin.Handle, a.logger)
}

// Close releases the migrator and the pool.
func (a *app) Close() {
	if a.migrator != nil {
		if err := a.migrator.Close(); err != nil {
			a.logger.Warn("closing migrator", "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// closeQuietly closes c and logs a failure at debug level.
func closeQuietly(logger *slog.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Debug("close failed", "what", what, "error", err)
	}
}
