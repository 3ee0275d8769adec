// Command photoclean is the CLI entrypoint for the image sanitizer.
//
// It parses flags (over an optional YAML defaults file), validates
// configuration, resolves the target directory (prompting interactively
// when no path is given), and either runs self-diagnostics (--check) or
// the cleaning pipeline.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/photoclean/photoclean/internal/check"
	"github.com/photoclean/photoclean/internal/config"
	"github.com/photoclean/photoclean/internal/display"
	"github.com/photoclean/photoclean/internal/logging"
	"github.com/photoclean/photoclean/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.LoadFile(&cfg, config.DefaultFilePath()); err != nil {
		fmt.Fprintf(os.Stderr, "photoclean: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "photoclean: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "photoclean: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "photoclean: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(log) {
			return 1
		}
		return 0
	}

	// Resolve the target directory: positional arg, or interactive prompt
	// when omitted. An unresolvable root is the one fatal error.
	if cfg.Root == "" {
		root, err := promptForRoot()
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		cfg.Root = config.NormalizeDirArg(root)
	}

	rootAbs, err := resolveRoot(cfg.Root)
	if err != nil {
		log.Error("'%s' is not a readable directory", cfg.Root)
		return 1
	}
	cfg.Root = rootAbs

	log.Info("=== photoclean v%s (%s) ===", version, commit)
	log.Info("Target: %s", cfg.Root)
	if cfg.DryRun {
		log.Warn("DRY RUN — no files will be modified")
	}
	log.Info("")

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can stop between files without leaving partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	// Phase 4: Run the pipeline. Per-file failures are reported in the
	// summary but do not affect the exit code; only a failure to resolve
	// the root is fatal.
	pipeline.Run(ctx, &cfg, log)
	return 0
}

// promptForRoot asks for the target directory on stdin.
func promptForRoot() (string, error) {
	fmt.Fprint(os.Stdout, "Enter the full path to the folder containing your photos: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no path given: %w", err)
	}
	root := strings.TrimSpace(line)
	if root == "" {
		return "", fmt.Errorf("no path given")
	}
	return root, nil
}

// resolveRoot expands ~, makes the path absolute with symlinks resolved,
// and verifies it is a directory.
func resolveRoot(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", resolved)
	}
	return resolved, nil
}
