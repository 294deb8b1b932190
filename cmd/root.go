// Package cmd implements the CLI command structure for taskdeck.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/taskfile"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskdeck CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand; the interactive menu is the default.
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "menu":
		return menuCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// menuCommand opens the store and runs the interactive shell.
func menuCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		ReportTimestamp: cfg.LogTimestamps,
		Prefix:          "taskdeck",
	})

	dir, err := taskfile.Open(cfg.DataDir, cfg.TasksFile, cfg.UsersFile)
	if err != nil {
		return fmt.Errorf("opening data dir: %w", err)
	}
	defer dir.Close()

	// A corrupt collection aborts startup here rather than running with
	// partial state.
	st, err := store.Open(dir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("store opened", "data_dir", cfg.DataDir)

	shell := NewShell(st, logger, os.Stdin, os.Stdout)
	return shell.Run(ctx)
}

func versionCommand() error {
	fmt.Printf("taskdeck %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "taskdeck - multi-account task tracker\n\n")
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  taskdeck [flags]            Start the interactive menu\n")
	fmt.Fprintf(w, "  taskdeck menu [flags]       Start the interactive menu\n")
	fmt.Fprintf(w, "  taskdeck doctor [flags]     Check the data directory and files\n")
	fmt.Fprintf(w, "  taskdeck version            Show version\n\n")
	fmt.Fprintf(w, "Flags:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
