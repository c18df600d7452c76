package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/streak-keeper/internal/gateway"
	"github.com/naka-gawa/streak-keeper/internal/gitx"
	"github.com/naka-gawa/streak-keeper/internal/usecase"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Backdates commits onto the missing dates in your recent history",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)
		cfg := loadConfig(cmd)

		repoPath, _ := cmd.Flags().GetString("repo")
		daysBack, _ := cmd.Flags().GetInt("days-back")
		push, _ := cmd.Flags().GetBool("push")

		if !gitx.IsRepository(repoPath) {
			fmt.Fprintf(os.Stderr, "Not a valid Git repository: %s\n", repoPath)
			os.Exit(1)
		}

		fetcher, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Analyzing contribution history and filling missing dates (last %d days)...\n", daysBack)

		rng := newRand()
		composer := usecase.NewComposer(newGitClient, rng, logger)
		bulk := usecase.NewBulk(composer, fetcher, usecase.NewAnalyzer(logger), rng, logger)
		results, err := bulk.FillMissingDates(ctx, repoPath, daysBack, push)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fill missing dates: %v\n", err)
			os.Exit(1)
		}
		if len(results) == 0 {
			color.Green("Your streak is already complete! No missing dates found.")
			return
		}

		printBulkResults(results, len(results))
		if !push {
			fmt.Println("Note: Commits were not pushed to GitHub. Use --push to push changes.")
		}
	},
}

func init() {
	rootCmd.AddCommand(fillCmd)
	fillCmd.Flags().String("repo", "", "Path to the local git repository (required)")
	fillCmd.Flags().Int("days-back", 30, "How many days back to analyze and fill")
	fillCmd.Flags().Bool("push", false, "Push the commits to GitHub after creating them")
	fillCmd.MarkFlagRequired("repo")
}
