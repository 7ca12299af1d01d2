package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/sadopc/worklens/internal/cli"
	"github.com/sadopc/worklens/internal/config"
	"github.com/sadopc/worklens/internal/logging"
	"github.com/sadopc/worklens/internal/store"
	"github.com/sadopc/worklens/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()
	// Anything logging through the default logger must not reach the terminal.
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Config: cfg,
		Logger: logging.Component(logger, "cli"),
		IsInteractive: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		RunTUI: func(ctx context.Context, s *store.Store) error {
			return tui.Run(ctx, s, tui.Options{
				ExportDir: cfg.ExportDir,
				Schema:    cfg.Schema,
				SheetName: cfg.Sheet,
				Logger:    logging.Component(logger, "tui"),
			})
		},
	}
	return cli.Execute(ctx, app, os.Args[1:], os.Stdout)
}
