package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BruksfildServices01/findcut/internal/app"
	"github.com/BruksfildServices01/findcut/internal/config"
	"github.com/BruksfildServices01/findcut/internal/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	a, err := app.New(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "findcut:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := 0
	if err := a.Start(ctx); err != nil {
		log.Error().Err(err).Msg("failed to restore session")
	}
	if err := run(ctx, a, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "findcut:", err)
		code = 1
	}

	stop()
	_ = a.Close()
	os.Exit(code)
}
