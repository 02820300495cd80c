// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package menu

import (
	"strconv"
	"time"

	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/internal/console"
)

// clearValue is typed at an optional prompt to clear a nullable field.
const clearValue = "-"

func (s *Shell) askID(prompt, field string) (int64, error) {
	return console.AskParsed(s.p, prompt, func(v string) (int64, error) {
		return clinic.ParseID(field, v)
	})
}

func (s *Shell) askDate(prompt string) (time.Time, error) {
	return console.AskParsed(s.p, prompt+" (YYYY-MM-DD): ", clinic.ParseDate)
}

func (s *Shell) askPeriod() (*clinic.Period, error) {
	for {
		from, err := s.askDate("From")
		if err != nil {
			return nil, err
		}
		to, err := s.askDate("To")
		if err != nil {
			return nil, err
		}
		period, err := clinic.NewPeriod(from, to)
		if err != nil {
			s.p.Println("  " + err.Error())
			continue
		}
		return period, nil
	}
}

func (s *Shell) askRequired(prompt, field string) (string, error) {
	return s.p.AskUntil(prompt, func(v string) error { return clinic.ValidateRequired(field, v) })
}

func letters(field string) func(string) error {
	return func(v string) error { return clinic.ValidateLetters(field, v) }
}

func accept(string) error { return nil }

// askClearable is AskOptional for nullable fields: blank keeps the value
// and clearValue returns an empty string, which clears it.
func (s *Shell) askClearable(prompt string, check func(string) error) (*string, error) {
	answer, err := s.p.AskOptional(prompt, func(v string) error {
		if v == clearValue {
			return nil
		}
		return check(v)
	})
	if err != nil || answer == nil {
		return nil, err
	}
	if *answer == clearValue {
		empty := ""
		return &empty, nil
	}
	return answer, nil
}

// askOptionalParsed is AskOptional for typed values.
func askOptionalParsed[T any](p *console.Prompter, prompt string, parse func(string) (T, error)) (*T, error) {
	var value T
	answer, err := p.AskOptional(prompt, func(v string) error {
		parsed, err := parse(v)
		if err != nil {
			return err
		}
		value = parsed
		return nil
	})
	if err != nil || answer == nil {
		return nil, err
	}
	return &value, nil
}

func parseOptionalID(field string) func(string) (int64, error) {
	return func(v string) (int64, error) { return clinic.ParseID(field, v) }
}

func show(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func showID(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}
