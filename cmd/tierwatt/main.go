package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/levenlabs/go-lflag"
	"github.com/tierwatt/tierwatt/pkg/log"
	"github.com/tierwatt/tierwatt/pkg/server"
	"github.com/tierwatt/tierwatt/pkg/storage"
	"github.com/tierwatt/tierwatt/pkg/tariff"
)

func main() {
	// init packages
	s := storage.Configured()
	t := tariff.Configured(s)

	// init server
	srv := server.Configured(t, s)

	// parse flags
	lflag.Configure()

	// lflag automatically sets llog's level, but we need to set the slog level
	if err := log.Configure(); err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// If initialization inside lflag.Do failed, we wouldn't be here (panic).
	defer func() {
		if err := s.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		}
	}()

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
