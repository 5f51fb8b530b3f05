package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/Dan9191/pin-ledger/internal/config"
	"github.com/Dan9191/pin-ledger/internal/handler"
	"github.com/Dan9191/pin-ledger/internal/repository"
	"github.com/Dan9191/pin-ledger/internal/scheduler"
	"github.com/Dan9191/pin-ledger/internal/service"
	"github.com/Dan9191/pin-ledger/internal/utils/email"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

var dataFile = flag.String("data-file", "", "Path to the JSON data file. Overrides DATA_FILE.")

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	flag.Parse()
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}

	// Initialize layers
	repo := repository.NewRepository(cfg.DataFile, logger)
	svc := service.NewService(repo, logger, cfg)
	if cfg.MailEnabled() {
		svc.SetNotifier(email.NewSender(cfg, logger))
	}
	sched := scheduler.NewScheduler(repo, cfg.BackupDir, logger)

	handler.NewHandler(svc, sched, cfg).Register(commander)

	os.Exit(int(commander.Execute(context.Background())))
}
