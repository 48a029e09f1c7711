package main

import (
	"context"
	"fmt"
	"os"

	"pet-care-scheduler/internal/app"
	"pet-care-scheduler/internal/platform/config"
	"pet-care-scheduler/internal/platform/logger"
	"pet-care-scheduler/internal/shell"
)

func main() {
	ctx := context.Background()
	boot := logger.NewFromEnv()

	if err := config.LoadDotEnv(os.Getenv("PETCARE_ENV_FILE")); err != nil {
		boot.Warn("env file error", map[string]any{"err": err.Error()})
	}

	cfg, err := config.FromEnv()
	if err != nil {
		boot.Warn("config error, using defaults", map[string]any{"err": err.Error()})
		cfg = config.Default()
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level, logger.Warn),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.AppName,
	})

	gw, closer, err := app.OpenGateway(ctx, cfg.Storage, log)
	if err != nil {
		// sin base disponible se sigue con los archivos locales
		log.Error("storage backend unavailable, falling back to files", map[string]any{
			"driver": cfg.Storage.Driver,
			"err":    err.Error(),
		})
		fallback := config.Default().Storage
		fallback.DataDir = cfg.Storage.DataDir
		fallback.PetsFile = cfg.Storage.PetsFile
		fallback.AppointmentsFile = cfg.Storage.AppointmentsFile
		gw, closer, err = app.OpenGateway(ctx, fallback, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open storage: %v\n", err)
			return
		}
	}
	defer closer.Close()

	a, err := app.New(app.Options{
		Gateway:      gw,
		Logger:       log,
		UpcomingDays: cfg.Reports.UpcomingDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		return
	}

	sh := shell.New(shell.Options{
		App:    a,
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Logger: log,
	})
	if err := sh.Run(ctx); err != nil {
		log.Error("input error", map[string]any{"err": err.Error()})
	}
}
