// ABOUTME: CLI entry point for umf, the universal makefile system installer
// ABOUTME: Parses subcommand flags, builds config, dispatches with signal handling

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// termfix must be imported before any package that imports bubbletea.
	// It sets lipgloss.SetHasDarkBackground(true) in its init(), preventing
	// BubbleTea's tea_init.go from sending OSC 10/11 terminal queries whose
	// async responses leak garbage into the prompts.
	_ "github.com/JINWOO-J/universal-makefile/internal/termfix"

	"github.com/JINWOO-J/universal-makefile/internal/cli"
	"github.com/JINWOO-J/universal-makefile/internal/log"
)

// Populated via -ldflags at release build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage(os.Stderr)
		return 2
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "version", "--version", "-v":
		fmt.Printf("umf %s (%s) built %s\n", version, commit, date)
		return 0
	case "help", "--help", "-h":
		usage(os.Stdout)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := dispatch(ctx, cmd, rest)
	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.As(err, &ue):
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
}

func dispatch(ctx context.Context, cmd string, args []string) error {
	if cmd == "self-update" {
		return runSelfUpdate(ctx, version)
	}

	inv, err := parseCommand(cmd, args)
	if err != nil {
		return err
	}
	log.SetDebug(inv.cfg.Debug)

	// Scratch space for downloads and extraction, gone on every exit path.
	workDir, err := os.MkdirTemp("", "umf-*")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	c := cli.New(inv.cfg, workDir)
	switch cmd {
	case "install":
		return c.Install(ctx, inv.mech)
	case "update":
		return c.Update(ctx)
	case "uninstall":
		return c.Uninstall(ctx)
	case "status":
		return c.Status(ctx, inv.format)
	case "check":
		return c.Check()
	case "app":
		return c.App(inv.rest)
	default:
		// parseCommand already rejected unknown commands.
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage(w *os.File) {
	fmt.Fprintf(w, `umf manages the universal makefile system inside a project.

Usage:
  umf <command> [flags]

Commands:
  install      Install the build system and scaffold project files
  update       Update an existing installation in place
  uninstall    Remove the build system, keeping project files
  status       Show the detected installation (--format table|json|yaml)
  check        Verify the project layout; exits non-zero when broken
  app          List bundled example templates, or install one by name
  self-update  Replace this binary with the latest release build
  version      Print version information
  help         Print this help

Run 'umf <command> -h' for command flags.
`)
}
