package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

type lineResult struct {
	line string
	err  error
}

// terminalPrompt writes notifications to stderr and reads confirmations from stdin.
// Notifications only take outMu, so they are printed while a question waits for input.
type terminalPrompt struct {
	askMu  sync.Mutex
	outMu  sync.Mutex
	in     *bufio.Reader
	out    io.Writer
	assume bool

	// fd is stdin's descriptor when it is a terminal, otherwise -1.
	fd int

	readOnce sync.Once
	lines    chan lineResult
}

func newTerminalPrompt(in io.Reader, out io.Writer, assumeYes bool) *terminalPrompt {
	p := &terminalPrompt{
		in:     bufio.NewReader(in),
		out:    out,
		assume: assumeYes,
		fd:     -1,
		lines:  make(chan lineResult),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

func (p *terminalPrompt) printf(format string, args ...any) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *terminalPrompt) Success(message string) {
	p.printf("✓ %s\n", message)
}

func (p *terminalPrompt) Error(message string) {
	p.printf("✗ %s\n", message)
}

func (p *terminalPrompt) Confirm(ctx context.Context, question string) bool {
	if p.assume {
		return true
	}

	p.askMu.Lock()
	defer p.askMu.Unlock()
	p.printf("⚠ %s [y/N]: ", question)

	answer, err := p.readLine(ctx)
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// ReadLine prints label and returns the next input line without the newline.
func (p *terminalPrompt) ReadLine(ctx context.Context, label string) (string, error) {
	p.askMu.Lock()
	defer p.askMu.Unlock()
	if label != "" {
		p.printf("%s", label)
	}
	return p.readLine(ctx)
}

// ReadPassword reads a secret without echoing it when stdin is a terminal. Piped input is read
// as a plain line.
func (p *terminalPrompt) ReadPassword(ctx context.Context, label string) (string, error) {
	if p.fd < 0 {
		return p.ReadLine(ctx, label)
	}

	p.askMu.Lock()
	defer p.askMu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	state, err := term.GetState(p.fd)
	if err != nil {
		return "", err
	}
	p.printf("%s", label)

	done := make(chan lineResult, 1)
	go func() {
		secret, err := term.ReadPassword(p.fd)
		done <- lineResult{line: string(secret), err: err}
	}()

	select {
	case <-ctx.Done():
		_ = term.Restore(p.fd, state)
		p.printf("\n")
		return "", ctx.Err()
	case r := <-done:
		p.printf("\n")
		return r.line, r.err
	}
}

// readLine waits for the next line from the reader goroutine. A line that arrives after ctx is
// done is handed to the next caller.
func (p *terminalPrompt) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.readOnce.Do(func() { go p.readLoop() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimRight(r.line, "\r\n"), r.err
	}
}

func (p *terminalPrompt) readLoop() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		p.lines <- lineResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}
