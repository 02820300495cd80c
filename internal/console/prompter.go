// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package console

import (
	"fmt"
	"io"
	"strings"
)

// Prompter asks questions on a LineReader and writes feedback to out.
type Prompter struct {
	r   LineReader
	out io.Writer
}

// NewPrompter creates a Prompter.
func NewPrompter(r LineReader, out io.Writer) *Prompter {
	return &Prompter{r: r, out: out}
}

// Printf writes formatted output.
func (p *Prompter) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Println writes a line of output.
func (p *Prompter) Println(args ...any) {
	_, _ = fmt.Fprintln(p.out, args...)
}

// Ask returns the trimmed answer to prompt.
func (p *Prompter) Ask(prompt string) (string, error) {
	line, err := p.r.ReadLine(prompt)
	return strings.TrimSpace(line), err
}

// AskSecret returns the answer to prompt without echoing it. The answer is
// not trimmed.
func (p *Prompter) AskSecret(prompt string) (string, error) {
	return p.r.ReadSecret(prompt)
}

// AskUntil repeats prompt until check accepts the answer, printing each
// rejection. Only read errors end the loop early.
func (p *Prompter) AskUntil(prompt string, check func(string) error) (string, error) {
	return p.until(p.Ask, prompt, check)
}

// AskSecretUntil is AskUntil for secrets.
func (p *Prompter) AskSecretUntil(prompt string, check func(string) error) (string, error) {
	return p.until(p.AskSecret, prompt, check)
}

func (p *Prompter) until(ask func(string) (string, error), prompt string, check func(string) error) (string, error) {
	for {
		answer, err := ask(prompt)
		if err != nil {
			return "", err
		}
		if err := check(answer); err != nil {
			p.Println("  " + err.Error())
			continue
		}
		return answer, nil
	}
}

// AskParsed repeats prompt until parse succeeds and returns the parsed
// value.
func AskParsed[T any](p *Prompter, prompt string, parse func(string) (T, error)) (T, error) {
	var value T
	_, err := p.AskUntil(prompt, func(s string) error {
		v, err := parse(s)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

// AskOptional returns nil for a blank answer, so callers can keep the
// current value.
func (p *Prompter) AskOptional(prompt string, check func(string) error) (*string, error) {
	answer, err := p.AskUntil(prompt, func(s string) error {
		if s == "" {
			return nil
		}
		return check(s)
	})
	if err != nil || answer == "" {
		return nil, err
	}
	return &answer, nil
}

// Confirm asks a yes/no question. Only y or yes confirm.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.Ask(prompt + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
