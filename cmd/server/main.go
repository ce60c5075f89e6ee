package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"adledger/internal/app/server"
	"adledger/internal/app/server/config"
	"adledger/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}
	runErr := srv.Run(ctx)
	if err := srv.Close(); err != nil {
		log.Error("failed to close storage", "error", err)
	}
	if runErr != nil {
		log.Error("server stopped with error", "error", runErr)
		os.Exit(1)
	}
}
