// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/streak-keeper/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "streak-keeper",
	Short: "A CLI tool to keep a GitHub contribution streak unbroken.",
	Long: `streak-keeper creates backdated git commits to keep a GitHub contribution
calendar unbroken, and reports streak analytics (current/longest streak,
missing dates) over the recent contribution history.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/"+config.FileName+")")
}

// newLogger builds the command logger, discarding output unless --verbose.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// loadConfig loads the configuration and enforces the token requirement.
// A missing credential prints setup guidance and exits with status 1.
func loadConfig(cmd *cobra.Command) config.Config {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "No GitHub token found. Please set up your token first.")
		fmt.Fprintln(os.Stderr, "Run: streak-keeper setup")
		os.Exit(1)
	}
	return cfg
}
