package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nlin/paperchat/internal/api"
	"github.com/nlin/paperchat/internal/tui"
)

const defaultAPIBase = "http://localhost:8000/api"

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var (
		apiBase     string
		logFile     string
		noAltScreen bool
	)

	cmd := &cobra.Command{
		Use:   "paperchat",
		Short: "Chat with an arXiv recommendation backend from the terminal",
		Long: "paperchat is a terminal client for a conversational arXiv paper\n" +
			"recommender. Describe a research interest, browse the recommended\n" +
			"papers, and download the ones worth keeping.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional; flags and real env still win.
			_ = godotenv.Load()

			base := resolveAPIBase(cmd, apiBase)
			logger, closeLogs, err := buildLogger(logFile)
			if err != nil {
				return err
			}
			defer closeLogs()

			opts := []tea.ProgramOption{}
			if !noAltScreen {
				opts = append(opts, tea.WithAltScreen())
			}
			program := tea.NewProgram(
				tui.New(tui.Config{
					Backend: api.NewClient(base),
					Logger:  logger,
				}),
				opts...,
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("run program: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiBase, "api-base", "", "backend base URL (default "+defaultAPIBase+", env PAPERCHAT_API_BASE)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append structured logs to this file")
	cmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "render inline instead of the alternate screen buffer")
	return cmd
}

func resolveAPIBase(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("api-base") && strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if env := strings.TrimSpace(os.Getenv("PAPERCHAT_API_BASE")); env != "" {
		return env
	}
	return defaultAPIBase
}

// buildLogger routes logs away from stdout, which belongs to the UI. Without
// a log file everything is discarded.
func buildLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		h := handler.NewIOWriterHandler(io.Discard, slog.AllLevels)
		return slog.NewWithHandlers(h), func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	h := handler.NewIOWriterHandler(file, slog.AllLevels)
	logger := slog.NewWithHandlers(h)
	return logger, func() { _ = file.Close() }, nil
}
