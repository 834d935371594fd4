package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/golang-cz/devslog"
	"github.com/mdobak/go-xerrors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/siahsang/blogclient/internal/api"
	"github.com/siahsang/blogclient/internal/auth"
	"github.com/siahsang/blogclient/internal/config"
	"github.com/siahsang/blogclient/internal/core"
	"github.com/siahsang/blogclient/internal/web"
)

type application struct {
	cfg    *config.Config
	logger *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	provider auth.Provider
	client   *api.Client
	session  *auth.Store
	router   *web.Router
	core     *core.Core
	registry *prometheus.Registry
	prompt   *terminalPrompt

	closers []func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &application{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: slog.New(slog.DiscardHandler),
	}

	err := newRootCmd(app).ExecuteContext(ctx)
	app.close()
	if err != nil {
		fmt.Fprintln(app.stderr, "Error:", err.Error())
		app.logger.Debug("command failed", slog.String("stack", xerrors.Sprint(err)))
		os.Exit(1)
	}
}

// configLogger builds the logger for the configured level and format. verbosity is the number
// of -v flags and can only lower the threshold.
func configLogger(w io.Writer, cfg config.LogConfig, verbosity int) *slog.Logger {
	level := parseLevel(cfg.Level)
	switch {
	case verbosity >= 2:
		level = min(level, slog.LevelDebug)
	case verbosity == 1:
		level = min(level, slog.LevelInfo)
	}

	handlerOptions := &slog.HandlerOptions{
		AddSource: level <= slog.LevelDebug,
		Level:     level,
	}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOptions))
	}

	handler := devslog.NewHandler(
		w, &devslog.Options{
			HandlerOptions:  handlerOptions,
			NewLineAfterLog: false,
		})
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func (app *application) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn("cleanup failed", slog.String("error", err.Error()))
		}
	}
	app.closers = nil
}
