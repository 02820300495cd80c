// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

// Package console reads interactive input: plain lines, masked secrets, and
// prompts that repeat until the answer is valid.
package console

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// ErrInterrupted is returned when the user aborts a prompt with Ctrl-C.
var ErrInterrupted = errors.New("input interrupted")

// LineReader reads one line of input per call. At end of input it returns
// io.EOF.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	// ReadSecret reads a line without echoing it when the input is a
	// terminal.
	ReadSecret(prompt string) (string, error)
	Close() error
}

// Open returns a liner-backed reader when in is a terminal and a plain
// buffered reader otherwise.
func Open(in *os.File, out io.Writer) LineReader {
	if term.IsTerminal(int(in.Fd())) {
		return newTerminalReader()
	}
	return NewReader(in, out)
}

type terminalReader struct {
	state *liner.State
}

func newTerminalReader() *terminalReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &terminalReader{state: state}
}

func (t *terminalReader) ReadLine(prompt string) (string, error) {
	line, err := t.state.Prompt(prompt)
	if err != nil {
		return "", translate(err)
	}
	if strings.TrimSpace(line) != "" {
		t.state.AppendHistory(line)
	}
	return line, nil
}

func (t *terminalReader) ReadSecret(prompt string) (string, error) {
	secret, err := t.state.PasswordPrompt(prompt)
	if err != nil {
		return "", translate(err)
	}
	return secret, nil
}

func (t *terminalReader) Close() error {
	return t.state.Close()
}

func translate(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) {
		return ErrInterrupted
	}
	return err
}

// Reader reads lines from any io.Reader, writing prompts to out. Secrets
// are read like ordinary lines.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewReader creates a Reader.
func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{in: bufio.NewReader(in), out: out}
}

// ReadLine writes prompt and returns the next line without its terminator.
// A final line without a newline is returned before io.EOF.
func (r *Reader) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(r.out, prompt); err != nil {
		return "", err
	}
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret is ReadLine; a non-terminal input has no echo to suppress.
func (r *Reader) ReadSecret(prompt string) (string, error) {
	line, err := r.ReadLine(prompt)
	if err == nil {
		_, _ = io.WriteString(r.out, "\n")
	}
	return line, err
}

// Close is a no-op.
func (r *Reader) Close() error { return nil }
