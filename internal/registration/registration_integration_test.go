// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

//go:build integration

package registration_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/pkg/errutil"
)

var _ = Describe("Registration", func() {
	It("creates a linked account, owner and animal", func() {
		res, err := env.workflow.SignUp(env.ctx, clientForm("ana", "12345678901"))
		Expect(err).NotTo(HaveOccurred())

		account, err := env.accounts.GetByHandle(env.ctx, "ana")
		Expect(err).NotTo(HaveOccurred())
		Expect(account.Role).To(Equal(auth.RoleClient))
		Expect(account.OwnerID).NotTo(BeNil())
		Expect(*account.OwnerID).To(Equal(res.Owner.ID))
		Expect(res.Animal.OwnerID).To(Equal(res.Owner.ID))
		Expect(env.hasher.Verify("secret123", account.PasswordHash)).To(BeTrue())
	})

	It("leaves no rows behind when the national ID is taken", func() {
		_, err := env.workflow.SignUp(env.ctx, clientForm("ana", "12345678901"))
		Expect(err).NotTo(HaveOccurred())

		_, err = env.workflow.SignUp(env.ctx, clientForm("bruno", "12345678901"))
		Expect(errutil.KindOf(err)).To(Equal(errutil.KindDuplicateNationalID))

		_, err = env.accounts.GetByHandle(env.ctx, "bruno")
		Expect(errutil.KindOf(err)).To(Equal(errutil.KindNotFound))
		Expect(count("accounts")).To(Equal(1))
		Expect(count("owners")).To(Equal(1))
		Expect(count("animals")).To(Equal(1))
	})

	It("rejects a taken handle without creating an owner", func() {
		_, err := env.workflow.SignUp(env.ctx, clientForm("ana", "12345678901"))
		Expect(err).NotTo(HaveOccurred())

		_, err = env.workflow.SignUp(env.ctx, clientForm("ana", "10987654321"))
		Expect(errutil.KindOf(err)).To(Equal(errutil.KindDuplicateHandle))
		Expect(count("owners")).To(Equal(1))
	})

	It("creates only the account for a veterinarian", func() {
		admin := &auth.Identity{AccountID: 1, Handle: "admin", Role: auth.RoleAdmin}
		form := clientForm("dr_lima", "")
		form.Role = auth.RoleVeterinarian

		res, err := env.workflow.CreateUser(env.ctx, admin, form)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Owner).To(BeNil())
		Expect(count("owners")).To(BeZero())
		Expect(count("animals")).To(BeZero())
	})
})

var _ = Describe("Administrator bootstrap", func() {
	prompt := func(context.Context) (string, error) { return "admin1234", nil }

	It("creates exactly one administrator across runs", func() {
		boot, err := auth.NewBootstrapper(env.accounts, env.hasher, env.tx, "", env.logger)
		Expect(err).NotTo(HaveOccurred())

		created, err := boot.EnsureAdmin(env.ctx, prompt)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		created, err = boot.EnsureAdmin(env.ctx, prompt)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())

		admins, err := env.accounts.ListByRole(env.ctx, auth.RoleAdmin)
		Expect(err).NotTo(HaveOccurred())
		Expect(admins).To(HaveLen(1))
	})

	It("tolerates concurrent first runs", func() {
		boot, err := auth.NewBootstrapper(env.accounts, env.hasher, env.tx, "", env.logger)
		Expect(err).NotTo(HaveOccurred())

		var wg sync.WaitGroup
		errs := make([]error, 3)
		for i := range errs {
			wg.Go(func() {
				_, errs[i] = boot.EnsureAdmin(env.ctx, prompt)
			})
		}
		wg.Wait()

		for _, err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(count("accounts")).To(Equal(1))
	})

	It("refuses to skip when a non-admin account holds the reserved handle", func() {
		digest, err := env.hasher.Hash("client1234")
		Expect(err).NotTo(HaveOccurred())
		Expect(env.accounts.Create(env.ctx, &auth.Account{
			Handle:       auth.DefaultAdminHandle,
			PasswordHash: digest,
			Role:         auth.RoleClient,
		})).To(Succeed())

		boot, err := auth.NewBootstrapper(env.accounts, env.hasher, env.tx, "", env.logger)
		Expect(err).NotTo(HaveOccurred())

		created, err := boot.EnsureAdmin(env.ctx, prompt)
		Expect(created).To(BeFalse())
		Expect(errutil.Is(err, errutil.KindDuplicateHandle)).To(BeTrue())

		admins, err := env.accounts.ListByRole(env.ctx, auth.RoleAdmin)
		Expect(err).NotTo(HaveOccurred())
		Expect(admins).To(BeEmpty())
	})

	It("keeps sign-up away from the reserved handle", func() {
		_, err := env.workflow.SignUp(env.ctx, clientForm(auth.DefaultAdminHandle, "12345678901"))
		Expect(errutil.Is(err, errutil.KindValidation)).To(BeTrue())
		Expect(count("accounts")).To(Equal(0))
	})
})

var _ = Describe("Login lockout", func() {
	clientRole := auth.RoleClient

	BeforeEach(func() {
		_, err := env.workflow.SignUp(env.ctx, clientForm("ana", "12345678901"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("locks after three failures until an administrator unlocks", func() {
		for range 3 {
			_, err := env.auth.Login(env.ctx, "ana", "wrong-pass1", &clientRole)
			Expect(errutil.KindOf(err)).To(Equal(errutil.KindInvalidCredentials))
		}

		_, err := env.auth.Login(env.ctx, "ana", "secret123", &clientRole)
		Expect(errutil.KindOf(err)).To(Equal(errutil.KindAccountLocked))

		account, err := env.accounts.GetByHandle(env.ctx, "ana")
		Expect(err).NotTo(HaveOccurred())
		Expect(account.Locked).To(BeTrue())
		Expect(account.FailedAttempts).To(Equal(3))

		Expect(env.auth.Unlock(env.ctx, nil, "ana")).To(Succeed())

		id, err := env.auth.Login(env.ctx, "ana", "secret123", &clientRole)
		Expect(err).NotTo(HaveOccurred())
		Expect(id.OwnerID).NotTo(BeNil())
	})

	It("does not count a role mismatch as a failure", func() {
		vetRole := auth.RoleVeterinarian
		_, err := env.auth.Login(env.ctx, "ana", "secret123", &vetRole)
		Expect(errutil.KindOf(err)).To(Equal(errutil.KindRoleMismatch))

		account, err := env.accounts.GetByHandle(env.ctx, "ana")
		Expect(err).NotTo(HaveOccurred())
		Expect(account.FailedAttempts).To(BeZero())
	})
})
