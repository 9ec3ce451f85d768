package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dhardy92/incubator-aurora/configuration"
	"github.com/dhardy92/incubator-aurora/server/flags"
	"github.com/dhardy92/incubator-aurora/server/log"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Versioning information set at build time
var version, commit = "dev", "n/a"

func main() {
	flags.Parse(os.Args[1:])

	// Setup logger first as this will be used to report progress of the rest of the setup
	if err := log.Init(os.Stdout); err != nil {
		lo.Must(fmt.Fprintln(os.Stderr, err))
		os.Exit(1)
	}
	log.Info("Aurora scheduler starting up...", "version", version, "commit", commit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := createScheduler(); err != nil {
		log.Error("Failed to create scheduler", "error", err)
		os.Exit(1)
	}

	// Storage comes first: its StorageStarted event tells subscribers they may read tasks.
	if err := storage.Start(ctx); err != nil {
		log.Error("Failed to start storage", "error", err)
		os.Exit(1)
	}
	if err := driver.Register(ctx, viper.GetString(flags.FrameworkID)); err != nil {
		log.Error("Failed to register driver", "error", err)
		os.Exit(1)
	}
	log.Info("Scheduler is ready", "ready", status.Ready())

	if file := viper.GetString(flags.Job); file != "" {
		if err := scheduleJob(file); err != nil {
			log.Error("Failed to schedule job", "file", file, "error", err)
			os.Exit(1)
		}
	}

	<-ctx.Done()
	log.Info("Shutdown signal received, attempting graceful shutdown")
	shutdownScheduler()
	log.Info("Shutdown completed. Bye!", "tasks", status.Counts())
}

func scheduleJob(file string) error {
	config, err := configuration.Read(file, configuration.ReadOptions{
		Bindings: viper.GetStringMapString(flags.JobBindings),
	})
	if err != nil {
		return err
	}

	ids, err := state.InsertJob(config)
	if err != nil {
		return err
	}
	log.Info("Job scheduled", "job", config.String(), "tasks", ids)
	return nil
}
