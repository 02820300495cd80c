// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package main

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/internal/registration"
	"github.com/petvida/petvida/pkg/errutil"
)

// Default timeout for seed command.
const defaultSeedTimeout = 2 * time.Minute

// defaultSeedPassword is the password of every demo account.
const defaultSeedPassword = "petvida123"

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout      time.Duration
	owners       int
	vets         int
	appointments int
	password     string
	seed         uint64
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo records",
		Long: `Creates demo veterinarians, and client accounts each with an owner,
a first animal and some scheduled appointments. Every demo account shares
the same password. Records that collide with existing handles or national
IDs are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().IntVar(&cfg.owners, "owners", 10, "number of client accounts to create")
	cmd.Flags().IntVar(&cfg.vets, "vets", 2, "number of veterinarian accounts to create")
	cmd.Flags().IntVar(&cfg.appointments, "appointments", 2, "appointments to schedule per animal")
	cmd.Flags().StringVar(&cfg.password, "password", defaultSeedPassword, "password of every demo account")
	cmd.Flags().Uint64Var(&cfg.seed, "seed", 0, "random seed for reproducible data (0 picks one)")

	return cmd
}

func (c *seedConfig) validate() error {
	switch {
	case c.owners < 0 || c.vets < 0 || c.appointments < 0:
		return oops.Code(errutil.CodeValidation).Errorf("counts cannot be negative")
	case c.timeout <= 0:
		return oops.Code(errutil.CodeValidation).With("field", "timeout").Errorf("timeout must be positive")
	}
	return auth.ValidatePassword(c.password)
}

func runSeed(cmd *cobra.Command, _ []string, sc *seedConfig) error {
	if err := sc.validate(); err != nil {
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

	// cmd.Context() carries SIGTERM cancellation
	ctx, cancel := context.WithTimeout(cmd.Context(), sc.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	a, err := openApp(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	s := &seeder{
		faker:    gofakeit.New(sc.seed),
		workflow: a.registration,
		records:  a.clinic,
		logger:   logger,
		actor: &auth.Identity{
			Handle:    "seed",
			Role:      auth.RoleAdmin,
			SessionID: ulid.Make(),
		},
		today: time.Now().UTC().Truncate(24 * time.Hour),
	}
	sum, err := s.run(ctx, sc)
	if err != nil {
		return err
	}

	cmd.Printf("Created %d veterinarian(s), %d client(s) and %d appointment(s); skipped %d duplicate(s)\n",
		sum.vets, sum.clients, sum.appointments, sum.skipped)
	if sum.vets+sum.clients > 0 {
		cmd.Printf("Demo accounts log in with password %q, for example %s\n", sc.password, sum.example)
	}
	return nil
}

// seedRegistrar is the part of the registration workflow the seeder uses.
type seedRegistrar interface {
	Register(ctx context.Context, form registration.Form) (*registration.Result, error)
}

// seedScheduler is the part of the clinic service the seeder uses.
type seedScheduler interface {
	ScheduleAppointment(ctx context.Context, actor *auth.Identity, in clinic.AppointmentInput) (*clinic.Appointment, error)
}

type seeder struct {
	faker    *gofakeit.Faker
	workflow seedRegistrar
	records  seedScheduler
	logger   *slog.Logger
	actor    *auth.Identity
	today    time.Time
}

type seedSummary struct {
	vets         int
	clients      int
	appointments int
	skipped      int
	example      string
}

func (s *seeder) run(ctx context.Context, sc *seedConfig) (seedSummary, error) {
	var sum seedSummary

	var vetIDs []int64
	for range sc.vets {
		res, err := s.register(ctx, demoVetForm(s.faker, sc.password), &sum)
		if err != nil {
			return sum, err
		}
		if res != nil {
			vetIDs = append(vetIDs, res.Account.ID)
			sum.vets++
		}
	}

	for range sc.owners {
		res, err := s.register(ctx, demoOwnerForm(s.faker, sc.password), &sum)
		if err != nil {
			return sum, err
		}
		if res == nil {
			continue
		}
		sum.clients++
		for range sc.appointments {
			var vetID *int64
			if len(vetIDs) > 0 {
				id := vetIDs[s.faker.Number(0, len(vetIDs)-1)]
				vetID = &id
			}
			in := demoAppointment(s.faker, res.Animal.ID, vetID, s.today)
			if _, err := s.records.ScheduleAppointment(ctx, s.actor, in); err != nil {
				return sum, oops.With("operation", "seed appointment").With("animal_id", res.Animal.ID).Wrap(err)
			}
			sum.appointments++
		}
	}
	return sum, nil
}

// register creates form's account. Duplicates are counted and skipped with
// a nil result.
func (s *seeder) register(ctx context.Context, form registration.Form, sum *seedSummary) (*registration.Result, error) {
	res, err := s.workflow.Register(ctx, form)
	switch {
	case errutil.Is(err, errutil.KindDuplicateHandle), errutil.Is(err, errutil.KindDuplicateNationalID):
		s.logger.WarnContext(ctx, "skipping duplicate demo record",
			"handle", form.Handle,
			"kind", string(errutil.KindOf(err)))
		sum.skipped++
		return nil, nil
	case err != nil:
		return nil, oops.With("operation", "seed account").With("handle", form.Handle).Wrap(err)
	}
	if sum.example == "" {
		sum.example = res.Account.Handle
	}
	return res, nil
}

var speciesBreeds = map[string][]string{
	"Dog":    {"Labrador", "Poodle", "Beagle", "Bulldog", "Mixed"},
	"Cat":    {"Siamese", "Persian", "Maine Coon", "Mixed"},
	"Rabbit": {"Angora", "Rex", "Mixed"},
	"Bird":   {"Canary", "Parakeet", "Cockatiel"},
}

var species = []string{"Dog", "Cat", "Rabbit", "Bird"}

var visitReasons = []string{
	"Annual checkup",
	"Vaccination",
	"Skin irritation",
	"Limping",
	"Dental cleaning",
	"Follow up visit",
}

// letters keeps letters and single spaces so generated names pass name
// validation.
func letters(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func demoHandle(f *gofakeit.Faker, name string) string {
	base := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(name))
	return orDefault(base, "user") + "_" + f.Numerify("####")
}

func demoVetForm(f *gofakeit.Faker, password string) registration.Form {
	return registration.Form{
		Handle:   "dr_" + demoHandle(f, f.LastName()),
		Password: password,
		Confirm:  password,
		Role:     auth.RoleVeterinarian,
	}
}

func demoOwnerForm(f *gofakeit.Faker, password string) registration.Form {
	first, last := orDefault(letters(f.FirstName()), "Ana"), orDefault(letters(f.LastName()), "Silva")
	kind := species[f.Number(0, len(species)-1)]
	breeds := speciesBreeds[kind]
	return registration.Form{
		Handle:   demoHandle(f, first),
		Password: password,
		Confirm:  password,
		Role:     auth.RoleClient,
		Owner: clinic.OwnerInput{
			Name:       first + " " + last,
			NationalID: f.Numerify("###########"),
			Email:      demoHandle(f, first) + "@example.com",
			Address:    f.Street() + ", " + f.City(),
			Phone:      f.Numerify("11#########"),
		},
		Animal: clinic.AnimalInput{
			Name:    orDefault(letters(f.PetName()), "Rex"),
			Species: kind,
			Breed:   breeds[f.Number(0, len(breeds)-1)],
			Age:     f.Number(0, 18),
		},
	}
}

func demoAppointment(f *gofakeit.Faker, animalID int64, vetID *int64, today time.Time) clinic.AppointmentInput {
	priority := clinic.PriorityNormal
	if f.Number(1, 10) == 1 {
		priority = clinic.PriorityUrgent
	}
	return clinic.AppointmentInput{
		AnimalID: animalID,
		Date:     today.AddDate(0, 0, f.Number(1, 60)),
		Time:     clinic.ClockTime{Hour: f.Number(8, 17), Minute: 15 * f.Number(0, 3)},
		Reason:   visitReasons[f.Number(0, len(visitReasons)-1)],
		Priority: priority,
		VetID:    vetID,
	}
}
