package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/gophjournal/internal/client/api"
	"github.com/iudanet/gophjournal/internal/client/cli"
	"github.com/iudanet/gophjournal/internal/client/iocli"
	"github.com/iudanet/gophjournal/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "gophjournal.db", "Path to local database")
	passphrase := flag.String("passphrase", "", "Master passphrase (prefer env var or file)")
	passphraseFile := flag.String("passphrase-file", "", "Path to file containing master passphrase")
	syncInterval := flag.Duration("sync-interval", 5*time.Minute, "Interval between sync cycles in watch mode")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	// Ctrl+C завершает watch и прерывает текущую команду
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	c := cli.New(
		iocli.NewStdio(),
		api.NewClient(*serverURL),
		boltStorage,
		logger,
		cli.Passphrases{
			FromFile: *passphraseFile,
			FromArgs: *passphrase,
		},
		*syncInterval,
	)

	if err := c.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("GophJournal Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
