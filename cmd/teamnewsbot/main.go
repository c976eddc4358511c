package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"TeamNewsBot/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		logging.New("info").Info("bot stopped by user")
	default:
		logging.New("info").Error("fatal error", "error", err)
		os.Exit(1)
	}
}
