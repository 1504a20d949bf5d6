// Package tuitest drives a compiled terminal program inside a pseudo
// terminal so integration tests can script keystrokes and inspect what the
// program painted.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultCols    = 120
	defaultRows    = 32
	defaultTimeout = 5 * time.Second
)

// Step is one scripted keystroke (or paste), optionally preceded by a pause
// that lets the program settle before the bytes arrive.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Config describes the program under test and the script to replay.
type Config struct {
	Command []string
	Dir     string
	Env     []string
	Cols    int
	Rows    int
	Steps   []Step
	Timeout time.Duration

	// AllowInterrupt accepts SIGINT-triggered exits, which is how a TUI
	// normally leaves after ctrl+c.
	AllowInterrupt bool
}

// Recording holds everything the program wrote to its terminal, both raw and
// split into frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Run starts the command on a PTY of the configured size, replays the steps,
// waits for exit, and returns the captured stream.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: no command given")
	}
	cols, rows := cfg.Cols, cfg.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = withTerm(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	var captured bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		queries := newQueryResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				queries.Feed(buf[:n])
				_, _ = captured.Write(buf[:n])
			}
			if readErr != nil {
				return
			}
		}
	}()

	started := time.Now()
	for _, step := range cfg.Steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: script interrupted: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, fmt.Errorf("tuitest: send input: %w", err)
			}
		}
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case err := <-exited:
		if err != nil && !interruptExit(err, cfg.AllowInterrupt) {
			return nil, fmt.Errorf("tuitest: program failed: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: program did not exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-drained

	raw := captured.Bytes()
	return &Recording{
		Raw:      raw,
		Frames:   splitFrames(raw),
		Duration: time.Since(started),
	}, nil
}

func interruptExit(err error, allowed bool) bool {
	if !allowed {
		return false
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.Contains(exitErr.Error(), "interrupt")
	}
	return strings.Contains(err.Error(), "interrupt")
}

func withTerm(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// queryResponder answers the terminal capability queries bubbletea emits at
// startup (cursor position, foreground, background). Without answers the
// program blocks waiting for a real terminal to reply.
type queryResponder struct {
	w    io.Writer
	tail []byte
}

func newQueryResponder(w io.Writer) *queryResponder {
	return &queryResponder{w: w, tail: make([]byte, 0, 128)}
}

var terminalQueries = []struct{ query, reply []byte }{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

func (q *queryResponder) Feed(chunk []byte) {
	q.tail = append(q.tail, chunk...)
	for {
		answered := false
		for _, tq := range terminalQueries {
			if idx := bytes.Index(q.tail, tq.query); idx >= 0 {
				q.tail = q.tail[idx+len(tq.query):]
				_, _ = q.w.Write(tq.reply)
				answered = true
			}
		}
		if !answered {
			break
		}
	}
	// A query can straddle two reads, so keep a short tail around.
	if len(q.tail) > 256 {
		q.tail = q.tail[len(q.tail)-64:]
	}
}

var (
	// KeyEnter submits the composer.
	KeyEnter = []byte{'\r'}
	// KeyCtrlC asks the program to quit.
	KeyCtrlC = []byte{3}
	// KeyEsc dismisses overlays.
	KeyEsc = []byte{27}
)
