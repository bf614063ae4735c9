package main

import (
	"fmt"
	"os"

	"github.com/greenpulse/greenpulse-go/cmd"
	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/logging"
)

// version and buildDate are overridden at build time with ldflags.
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Initialize structured logging before anything can emit a log line.
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Stamp build metadata so the health endpoint can report it.
	settings.Version = version
	settings.BuildDate = buildDate

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
