package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/portalsso/pkg/clientip"
	"github.com/dmitrymomot/portalsso/pkg/config"
	"github.com/dmitrymomot/portalsso/pkg/environment"
	"github.com/dmitrymomot/portalsso/pkg/httpserver"
	"github.com/dmitrymomot/portalsso/pkg/logger"
	"github.com/dmitrymomot/portalsso/pkg/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	env := environment.Parse(cfg.Env)
	log := logger.New(
		logger.WithEnvironment(env, cfg.ServiceName),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)

	a, err := newApp(ctx, cfg, env, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("shutdown cleanup failed", logger.Error(err))
		}
	}()

	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, a.router)
}
