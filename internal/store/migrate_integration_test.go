// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

//go:build integration

package store_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/petvida/petvida/internal/store"
)

var _ = Describe("Migrator", Ordered, func() {
	var migrator *store.Migrator

	BeforeAll(func() {
		var err error
		migrator, err = store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = migrator.Close() })
		Expect(migrator.Down()).To(Succeed())
	})

	It("reports version zero on an empty schema", func() {
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())
	})

	It("applies every migration and is idempotent", func() {
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Up()).To(Succeed())

		pending, err := migrator.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeEmpty())
	})

	It("steps down and back up", func() {
		latest, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())

		Expect(migrator.Steps(-1)).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(latest - 1))

		Expect(migrator.Steps(1)).To(Succeed())
		version, _, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(latest))
	})

	It("resets to an empty schema", func() {
		pool, err := store.Connect(suiteCtx, connStr, store.ConnectOptions{Retries: 3, Backoff: 100 * time.Millisecond})
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		_, err = pool.Exec(suiteCtx,
			`INSERT INTO owners (name, national_id, address, phone) VALUES ('Ana', '12345678901', 'Rua A', '11999999999')`)
		Expect(err).NotTo(HaveOccurred())

		Expect(migrator.Reset()).To(Succeed())

		var n int
		Expect(pool.QueryRow(suiteCtx, `SELECT count(*) FROM owners`).Scan(&n)).To(Succeed())
		Expect(n).To(BeZero())
	})
})

var _ = Describe("Transactor", Ordered, func() {
	BeforeAll(func() {
		migrator, err := store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Close()).To(Succeed())
	})

	It("rolls back every statement when fn fails", func() {
		pool, err := store.Connect(suiteCtx, connStr, store.ConnectOptions{})
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		tr := store.NewTransactor(pool)
		boom := errors.New("boom")
		err = tr.InTransaction(suiteCtx, func(ctx context.Context) error {
			_, err := store.Querier(ctx, pool).Exec(ctx,
				`INSERT INTO owners (name, national_id, address, phone) VALUES ('Bia', '10987654321', 'Rua B', '11888888888')`)
			Expect(err).NotTo(HaveOccurred())
			return boom
		})
		Expect(errors.Is(err, boom)).To(BeTrue())

		var n int
		Expect(pool.QueryRow(suiteCtx, `SELECT count(*) FROM owners WHERE national_id = '10987654321'`).Scan(&n)).To(Succeed())
		Expect(n).To(BeZero())
	})
})
