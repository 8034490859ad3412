// Package main is the entry point for the keygate daemon.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/t4euyoon/keygate/internal/app"
	"github.com/t4euyoon/keygate/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, initConfig := parseFlags()

	if initConfig {
		if opts.ConfigPath == "" {
			fmt.Fprintln(os.Stderr, "Error: -init-config needs -config to name the file to write")
			return 1
		}
		if err := config.Default().WriteFile(opts.ConfigPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Wrote default configuration to %s\n", opts.ConfigPath)
		return 0
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var initConfig bool
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configured level")
	flag.BoolVar(&opts.Simulate, "simulate", false, "Run against simulated devices instead of the driver")
	flag.BoolVar(&opts.Simulate, "s", false, "Run against simulated devices (shorthand)")
	flag.BoolVar(&opts.WatchConfig, "watch-config", false, "Reload the configuration file when it changes")
	flag.BoolVar(&initConfig, "init-config", false, "Write the default configuration to -config and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keygate - input interception daemon\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keygate [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keygate -simulate                      Run against simulated devices\n")
		fmt.Fprintf(os.Stderr, "  keygate -c keygate.toml                Run with a configuration file\n")
		fmt.Fprintf(os.Stderr, "  keygate -c keygate.toml -watch-config  Re-apply configuration on change\n")
		fmt.Fprintf(os.Stderr, "  keygate -c keygate.toml -init-config   Write the default configuration\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keygate %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts, initConfig
}
