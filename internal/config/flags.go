package config

// This file implements CLI flag parsing and help text.
// Negated flags (e.g. --no-recursive) are applied after Parse so Config
// defaults hold unless the user passes the flag.

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, too many args).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("photoclean", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() (or a config file) hold unless
	// the user passes the flag.
	var negated negatedFlags

	defineBehaviorFlags(fs, cfg, &negated)
	defineEncodeFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "photoclean v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noRecursive -> Recursive=false) or
// trigger exit (showHelp, showVersion).
type negatedFlags struct {
	recursive   bool
	noRecursive bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineBehaviorFlags registers -r/--recursive, --no-recursive, -n/--dry-run.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.recursive, "recursive", false, "Scan sub-folders (default: on)")
	fs.BoolVar(&n.recursive, "r", false, "Same as --recursive")
	fs.BoolVar(&n.noRecursive, "no-recursive", false, "Only scan the top-level folder")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Report what would be cleaned; do not write")
	fs.BoolVar(&cfg.DryRun, "n", false, "Same as --dry-run")
}

// defineEncodeFlags registers -q/--jpeg-quality and --max-edge.
func defineEncodeFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.JPEGQuality, "jpeg-quality", cfg.JPEGQuality, "JPEG re-encode quality, 1-100")
	fs.IntVar(&cfg.JPEGQuality, "q", cfg.JPEGQuality, "Same as --jpeg-quality")
	fs.IntVar(&cfg.MaxEdge, "max-edge", cfg.MaxEdge, "Downscale images whose longest edge exceeds this (0 = off)")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Print a line for every processed file")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run codec self-diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
// --no-recursive wins over -r when both are passed.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.recursive {
		cfg.Recursive = true
	}
	if n.noRecursive {
		cfg.Recursive = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets Root from the optional positional arg. An absent
// arg is allowed (the entrypoint prompts for the path); more than one is not.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		return nil
	case 1:
		cfg.Root = NormalizeDirArg(args[0])
		return nil
	default:
		return fmt.Errorf("expected at most one path argument, got %d", len(args))
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "photoclean v" + version + " — strip metadata and hidden trailing data from images"},
		{"", ""},
		{"  photoclean [OPTIONS] [path]", ""},
		{"", ""},
		{"", "The path may be omitted; you will be prompted for it."},
		{"", "Supported formats: JPEG, PNG, GIF, TIFF, WebP."},
		{"", ""},
		{"Behavior", ""},
		{"  -r, --recursive", "Scan sub-folders (default: on)"},
		{"  --no-recursive", "Only scan the top-level folder"},
		{"  -n, --dry-run", "Report what would be cleaned; do not write"},
		{"", ""},
		{"Re-encoding", ""},
		{"  -q, --jpeg-quality <1-100>", "JPEG re-encode quality (default: 95)"},
		{"  --max-edge <px>", "Downscale longest edge to <px> (default: off)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Print a line for every processed file"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "Codec self-diagnostics (decode/encode round-trips)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
