// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package menu

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
)

// table writes tab-separated rows as aligned columns.
func (s *Shell) table(header string, rows [][]string) {
	if len(rows) == 0 {
		s.p.Println("Nothing to show.")
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, header)
	for _, r := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	_ = w.Flush()
}

func fmtID(v int64) string { return fmt.Sprint(v) }

func (s *Shell) showAccounts(accounts []*auth.Account) {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		state := "active"
		if a.Locked {
			state = "LOCKED"
		}
		rows = append(rows, []string{fmtID(a.ID), a.Handle, a.Role.Label(), state, fmt.Sprint(a.FailedAttempts)})
	}
	s.table("ID\tHANDLE\tROLE\tSTATE\tFAILED", rows)
}

func (s *Shell) showOwners(owners []*clinic.Owner) {
	rows := make([][]string, 0, len(owners))
	for _, o := range owners {
		rows = append(rows, []string{fmtID(o.ID), o.Name, o.NationalID, show(o.Email), o.Phone, o.Address})
	}
	s.table("ID\tNAME\tNATIONAL ID\tEMAIL\tPHONE\tADDRESS", rows)
}

func (s *Shell) showAnimals(animals []*clinic.AnimalListing) {
	rows := make([][]string, 0, len(animals))
	for _, a := range animals {
		rows = append(rows, []string{fmtID(a.ID), a.Name, a.Species, a.Breed, fmt.Sprint(a.Age), a.OwnerName})
	}
	s.table("ID\tNAME\tSPECIES\tBREED\tAGE\tOWNER", rows)
}

func (s *Shell) showOwnAnimals(animals []*clinic.Animal) {
	rows := make([][]string, 0, len(animals))
	for _, a := range animals {
		rows = append(rows, []string{fmtID(a.ID), a.Name, a.Species, a.Breed, fmt.Sprint(a.Age)})
	}
	s.table("ID\tNAME\tSPECIES\tBREED\tAGE", rows)
}

func (s *Shell) showProfile(p *clinic.OwnerProfile) {
	o := p.Owner
	s.p.Printf("Owner #%d: %s\n", o.ID, o.Name)
	s.p.Printf("  National ID: %s\n", o.NationalID)
	s.p.Printf("  Email:       %s\n", show(o.Email))
	s.p.Printf("  Address:     %s\n", o.Address)
	s.p.Printf("  Phone:       %s\n", o.Phone)
	s.p.Printf("  Note:        %s\n", show(o.Note))
	s.p.Println("Animals:")
	s.showOwnAnimals(p.Animals)
}

func (s *Shell) showAppointments(list []*clinic.AppointmentListing) {
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		rows = append(rows, []string{
			fmtID(a.ID),
			a.Date.Format(clinic.DateLayout),
			a.Time.String(),
			a.AnimalName,
			a.OwnerName,
			a.Reason,
			show(a.Diagnosis),
			string(a.Status),
			string(a.Priority),
			showID(a.VetID),
		})
	}
	s.table("ID\tDATE\tTIME\tANIMAL\tOWNER\tREASON\tDIAGNOSIS\tSTATUS\tPRIORITY\tVET", rows)
}

func (s *Shell) showSurgeries(list []*clinic.SurgeryListing) {
	rows := make([][]string, 0, len(list))
	for _, su := range list {
		rows = append(rows, []string{
			fmtID(su.ID),
			su.Date.Format(clinic.DateLayout),
			su.AnimalName,
			su.OwnerName,
			su.Kind,
			show(su.Notes),
			string(su.Status),
		})
	}
	s.table("ID\tDATE\tANIMAL\tOWNER\tKIND\tNOTES\tSTATUS", rows)
}

func (s *Shell) showCounts(counts []clinic.OwnerAnimalCount) {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{fmtID(c.OwnerID), c.Name, fmt.Sprint(c.Animals)})
	}
	s.table("ID\tOWNER\tANIMALS", rows)
}
