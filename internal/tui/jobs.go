package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gookit/slog"
)

type jobKind string

const (
	jobKindChat     jobKind = "chat"
	jobKindDownload jobKind = "download"
	jobKindListing  jobKind = "listing"
	jobKindPreview  jobKind = "preview"
)

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus spawns the asynchronous work behind each suspension point and logs
// every job's lifecycle. Stdout belongs to the terminal UI, so the logger
// writes elsewhere (a file, or nowhere).
type jobBus struct {
	counter int64
	logger  *slog.Logger
}

func newJobBus(logger *slog.Logger) *jobBus {
	return &jobBus{logger: logger}
}

func (b *jobBus) nextID(kind jobKind) string {
	return fmt.Sprintf("%s-%d", kind, atomic.AddInt64(&b.counter, 1))
}

// Start returns a command running the job off the update loop. The runner's
// message is delivered whether or not it also returns an error; failures are
// data to the model, never program-level errors.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	return func() tea.Msg {
		started := time.Now()
		payload, err := runner(context.Background())
		if b.logger != nil {
			fields := slog.M{
				"job":      id,
				"duration": time.Since(started).String(),
			}
			if err != nil {
				b.logger.WithFields(fields).Warnf("job failed: %v", err)
			} else {
				b.logger.WithFields(fields).Info("job finished")
			}
		}
		return payload
	}
}
