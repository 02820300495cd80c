// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package clinic

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/samber/oops"

	"github.com/petvida/petvida/pkg/errutil"
)

// Field limits.
const (
	NationalIDLength = 11
	MinPhoneLength   = 8
	MinAge           = 0
	MaxAge           = 40
)

// Input layouts.
const (
	DateLayout = time.DateOnly
	TimeLayout = "15:04"
)

func invalid(field, format string, args ...any) error {
	return oops.Code(errutil.CodeValidation).
		With("field", field).
		Errorf(format, args...)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateNationalID requires exactly 11 digits.
func ValidateNationalID(id string) error {
	if len(id) != NationalIDLength || !allDigits(id) {
		return invalid("national_id", "national ID must have exactly %d digits", NationalIDLength)
	}
	return nil
}

// ValidatePhone requires digits only, at least 8 of them.
func ValidatePhone(phone string) error {
	if !allDigits(phone) || len(phone) < MinPhoneLength {
		return invalid("phone", "phone must have at least %d digits and nothing else", MinPhoneLength)
	}
	return nil
}

// ValidateAge requires an age between 0 and 40 years inclusive.
func ValidateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return invalid("age", "age must be between %d and %d", MinAge, MaxAge)
	}
	return nil
}

// ParseAge parses and validates an age typed by the user.
func ParseAge(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !allDigits(strings.TrimPrefix(s, "-")) {
		return 0, invalid("age", "age must be a whole number")
	}
	age, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid("age", "age must be a whole number")
	}
	return age, ValidateAge(age)
}

// ValidateLetters requires a non-empty value made of letters and spaces.
func ValidateLetters(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "%s cannot be empty", field)
	}
	for _, r := range value {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return invalid(field, "%s may contain only letters and spaces", field)
		}
	}
	return nil
}

// ValidateEmail accepts an empty value or one with a single @ between two
// non-empty parts.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return invalid("email", "email must look like name@domain")
	}
	return nil
}

// ValidateRequired rejects blank values.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "%s cannot be empty", field)
	}
	return nil
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalid("date", "date must be YYYY-MM-DD")
	}
	return d, nil
}

// ParseClockTime parses HH:MM in 24-hour form.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, invalid("time", "time must be HH:MM")
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// NewPeriod builds an inclusive period, rejecting an end before the start.
func NewPeriod(from, to time.Time) (*Period, error) {
	if to.Before(from) {
		return nil, invalid("period", "end date %s is before start date %s",
			to.Format(DateLayout), from.Format(DateLayout))
	}
	return &Period{From: from, To: to}, nil
}

// ParseStatus accepts a status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", invalid("status", "status must be scheduled, completed or cancelled")
}

// ParsePriority accepts a priority name.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityNormal, PriorityUrgent:
		return p, nil
	}
	return "", invalid("priority", "priority must be normal or urgent")
}

// ParseID parses a positive record ID.
func ParseID(field, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(field, "%s must be a positive number", field)
	}
	return id, nil
}

// OwnerInput is the data needed to register an owner.
type OwnerInput struct {
	Name       string
	NationalID string
	Email      string
	Address    string
	Phone      string
	Note       string
}

// Validate checks every field and returns the first failure.
func (in OwnerInput) Validate() error {
	for _, err := range []error{
		ValidateLetters("name", in.Name),
		ValidateNationalID(in.NationalID),
		ValidateEmail(in.Email),
		ValidateRequired("address", in.Address),
		ValidatePhone(in.Phone),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Owner builds the record to insert. Empty optional fields become NULL.
func (in OwnerInput) Owner() *Owner {
	return &Owner{
		Name:       strings.TrimSpace(in.Name),
		NationalID: in.NationalID,
		Email:      optional(in.Email),
		Address:    strings.TrimSpace(in.Address),
		Phone:      in.Phone,
		Note:       optional(in.Note),
	}
}

// AnimalInput is the data needed to register an animal.
type AnimalInput struct {
	Name    string
	Species string
	Breed   string
	Age     int
}

// Validate checks every field and returns the first failure.
func (in AnimalInput) Validate() error {
	for _, err := range []error{
		ValidateLetters("name", in.Name),
		ValidateLetters("species", in.Species),
		ValidateLetters("breed", in.Breed),
		ValidateAge(in.Age),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Animal builds the record to insert for ownerID.
func (in AnimalInput) Animal(ownerID int64) *Animal {
	return &Animal{
		Name:    strings.TrimSpace(in.Name),
		Species: strings.TrimSpace(in.Species),
		Breed:   strings.TrimSpace(in.Breed),
		Age:     in.Age,
		OwnerID: ownerID,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
