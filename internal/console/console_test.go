// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package console_test

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petvida/petvida/internal/console"
)

func newPrompter(input string) (*console.Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return console.NewPrompter(console.NewReader(strings.NewReader(input), out), out), out
}

func TestReader_ReadLine(t *testing.T) {
	out := &bytes.Buffer{}
	r := console.NewReader(strings.NewReader("first\r\nlast"), out)

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = r.ReadLine("> ")
	require.NoError(t, err, "a final line without newline is still returned")
	assert.Equal(t, "last", line)

	_, err = r.ReadLine("> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > ", out.String())
}

func TestReader_ReadSecretKeepsSpaces(t *testing.T) {
	r := console.NewReader(strings.NewReader(" pass word \n"), io.Discard)
	secret, err := r.ReadSecret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, " pass word ", secret)
}

func TestPrompter_AskUntil(t *testing.T) {
	p, out := newPrompter("\nabc\nok\n")
	answer, err := p.AskUntil("Name: ", func(s string) error {
		if s != "ok" {
			return errors.New("say ok")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	assert.Equal(t, 2, strings.Count(out.String(), "say ok"))
}

func TestPrompter_AskUntil_StopsAtEOF(t *testing.T) {
	p, _ := newPrompter("bad\n")
	_, err := p.AskUntil("Name: ", func(string) error { return errors.New("never") })
	assert.ErrorIs(t, err, io.EOF)
}

func TestAskParsed(t *testing.T) {
	p, _ := newPrompter("x\n7\n")
	n, err := console.AskParsed(p, "Number: ", strconv.Atoi)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestPrompter_AskOptional(t *testing.T) {
	p, _ := newPrompter("\n12\n1234\n")
	check := func(s string) error {
		if len(s) < 4 {
			return errors.New("too short")
		}
		return nil
	}

	got, err := p.AskOptional("Phone: ", check)
	require.NoError(t, err)
	assert.Nil(t, got, "blank keeps the current value")

	got, err = p.AskOptional("Phone: ", check)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1234", *got)
}

func TestPrompter_Confirm(t *testing.T) {
	p, _ := newPrompter("YES\nn\n\n")
	for _, want := range []bool{true, false, false} {
		ok, err := p.Confirm("Delete?")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
}
