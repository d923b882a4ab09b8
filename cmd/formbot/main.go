package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"formbot/internal/di"
	"formbot/internal/infrastructure/env"

	"github.com/fatih/color"
)

func main() {
	envService := env.NewEnvService()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(di.LoadConfig(envService))
	if err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}
	defer container.Close()

	container.Logger.Info("Environment loaded", "app_env", envService.AppEnv(), "files", envService.Loaded())

	if err := run(ctx, container); err != nil && !errors.Is(err, context.Canceled) {
		container.Logger.Error("Run failed", "error", err)
		color.New(color.FgRed).Fprintf(os.Stderr, "\nError: %v\n", err)
		container.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, container *di.Container) error {
	cfg, err := container.ResolveRun(ctx)
	if err != nil {
		return err
	}

	if err := container.Verify(ctx, cfg.FormURL); err != nil {
		return fmt.Errorf("form check failed: %w", err)
	}

	runner, err := container.NewRunner(ctx)
	if err != nil {
		return err
	}

	return runner.Run(ctx, cfg)
}
