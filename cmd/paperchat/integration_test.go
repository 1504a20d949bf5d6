package main

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/nlin/paperchat/internal/tuitest"
)

func TestPaperChatShowsWelcomeAndQuits(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		// Nothing listens on this port; the welcome screen needs no backend.
		Command: []string{binary, "--no-alt-screen", "--api-base", "http://127.0.0.1:1"},
		Dir:     cmdDir,
		Cols:    110,
		Rows:    34,
		Steps: []tuitest.Step{
			{Delay: time.Second},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        8 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	frame, ok := rec.FinalFrame()
	if !ok {
		t.Fatal("no frames captured")
	}
	for _, want := range []string{
		"PaperChat",
		"Welcome to PaperChat",
		"Recommended Papers",
	} {
		if !strings.Contains(frame.Plain, want) {
			t.Errorf("final frame missing %q:\n%s", want, frame.Plain)
		}
	}
	if !rec.Contains("Try one of these") {
		t.Errorf("no frame showed the example prompts")
	}
}

func TestPaperChatEscClearsComposer(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "--no-alt-screen", "--api-base", "http://127.0.0.1:1"},
		Dir:     cmdDir,
		Cols:    110,
		Rows:    34,
		Steps: []tuitest.Step{
			{Delay: 500 * time.Millisecond},
			{Input: []byte("diffusion models")},
			{Delay: 300 * time.Millisecond},
			{Input: tuitest.KeyEsc},
			{Delay: 300 * time.Millisecond},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        8 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.Contains("diffusion models") {
		t.Fatal("typed text never appeared in the composer")
	}
	frame, ok := rec.FinalFrame()
	if !ok {
		t.Fatal("no frames captured")
	}
	if strings.Contains(frame.Plain, "diffusion models") {
		t.Fatalf("esc should have cleared the composer:\n%s", frame.Plain)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "paperchat-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
