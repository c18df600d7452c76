package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/streak-keeper/internal/gateway"
	"github.com/naka-gawa/streak-keeper/internal/gitx"
	"github.com/naka-gawa/streak-keeper/internal/usecase"
	"github.com/naka-gawa/streak-keeper/internal/watch"
)

// logFileName is the append-only watcher log in the user's home directory.
const logFileName = ".streak-keeper.log"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Runs the daily streak check in the foreground",
	Long: `watch runs a long-lived loop that checks the contribution calendar once
per day at a scheduled time (randomized within working hours unless --hour and
--minute are given) and creates a pushed commit for today when it is missing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		repoPath, _ := cmd.Flags().GetString("repo")
		hour, _ := cmd.Flags().GetInt("hour")
		minute, _ := cmd.Flags().GetInt("minute")
		daemon, _ := cmd.Flags().GetBool("daemon")

		if !gitx.IsRepository(repoPath) {
			fmt.Fprintf(os.Stderr, "Not a valid Git repository: %s\n", repoPath)
			os.Exit(1)
		}

		logger, closeLog, err := newWatchLogger(daemon)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer closeLog()

		fetcher, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		rng := newRand()
		composer := usecase.NewComposer(newGitClient, rng, logger)
		watcher := watch.New(repoPath, hour, minute, fetcher, usecase.NewAnalyzer(logger), composer, rng, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			os.Exit(1)
		}
	},
}

// newWatchLogger writes to the home-directory log file, mirrored to stderr
// unless running in daemon mode.
func newWatchLogger(daemon bool) (*log.Logger, func(), error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(filepath.Join(home, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	var out io.Writer = file
	if !daemon {
		out = io.MultiWriter(os.Stderr, file)
	}
	return log.New(out, "", log.LstdFlags), func() { _ = file.Close() }, nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("repo", "", "Path to the local git repository (required)")
	watchCmd.Flags().Int("hour", -1, "Hour for the daily check, 24-hour format (random working hour if omitted)")
	watchCmd.Flags().Int("minute", -1, "Minute for the daily check (random if omitted)")
	watchCmd.Flags().Bool("daemon", false, "Log only to the log file, keeping stdout/stderr quiet")
	watchCmd.MarkFlagRequired("repo")
}
