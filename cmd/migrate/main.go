package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ngenohkevin/lms-circulation/internal/config"
	"github.com/ngenohkevin/lms-circulation/internal/database"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "abort the migration after this long")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [-timeout d] up|down|status\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	// config.Load reads .env through godotenv before consulting viper.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := database.Migrate(ctx, db.Pool, command); err != nil {
		slog.Error("Migration failed", "command", command, "error", err)
		cancel()
		db.Close()
		os.Exit(1)
	}

	slog.Info("Migration finished", "command", command)
}
