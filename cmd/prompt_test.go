package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTerminalPrompt_NotifiesWhileWaitingForInput(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	out := &lockedBuffer{}
	p := newTerminalPrompt(r, out, false)

	answer := make(chan string, 1)
	go func() {
		line, err := p.ReadLine(context.Background(), "> ")
		assert.NoError(t, err)
		answer <- line
	}()
	require.Eventually(t, func() bool { return out.String() == "> " }, time.Second, time.Millisecond)

	notified := make(chan struct{})
	go func() {
		p.Error("Failed to load tags")
		p.Success("Blog post saved")
		close(notified)
	}()
	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Fatal("notification blocked by a pending read")
	}
	assert.Equal(t, "> ✗ Failed to load tags\n✓ Blog post saved\n", out.String())

	_, err := w.Write([]byte("next\n"))
	require.NoError(t, err)
	assert.Equal(t, "next", <-answer)
}

func TestTerminalPrompt_ReadLineHonoursCancellation(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := newTerminalPrompt(r, io.Discard, false)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := p.ReadLine(ctx, "")
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("read ignored context cancellation")
	}

	go func() { _, _ = w.Write([]byte("kept\n")) }()
	line, err := p.ReadLine(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "kept", line, "input typed after a cancelled read goes to the next one")
}

func TestTerminalPrompt_ReadLine(t *testing.T) {
	p := newTerminalPrompt(strings.NewReader("first\r\nlast"), io.Discard, false)
	ctx := context.Background()

	line, err := p.ReadLine(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = p.ReadLine(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = p.ReadLine(ctx, "")
	assert.ErrorIs(t, err, io.EOF)
	_, err = p.ReadLine(ctx, "")
	assert.ErrorIs(t, err, io.EOF)
}

func TestTerminalPrompt_ReadPasswordFromPipe(t *testing.T) {
	var out bytes.Buffer
	p := newTerminalPrompt(strings.NewReader("secret1\nnext\n"), &out, false)
	ctx := context.Background()

	secret, err := p.ReadPassword(ctx, "Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret1", secret)
	assert.Equal(t, "Password: ", out.String())

	line, err := p.ReadLine(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestTerminalPrompt_Confirm(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		assume bool
		want   bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full word", input: " YES \n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty", input: "\n", want: false},
		{name: "end of input", input: "", want: false},
		{name: "assume yes", input: "", assume: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTerminalPrompt(strings.NewReader(tt.input), io.Discard, tt.assume)
			assert.Equal(t, tt.want, p.Confirm(context.Background(), "Delete this?"))
		})
	}
}
