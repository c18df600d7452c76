package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/streak-keeper/internal/domain"
	"github.com/naka-gawa/streak-keeper/internal/gitx"
	"github.com/naka-gawa/streak-keeper/internal/usecase"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Creates backdated commits for every date in a range",
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		loadConfig(cmd)

		repoPath, _ := cmd.Flags().GetString("repo")
		startStr, _ := cmd.Flags().GetString("start-date")
		endStr, _ := cmd.Flags().GetString("end-date")
		count, _ := cmd.Flags().GetInt("count")
		push, _ := cmd.Flags().GetBool("push")

		start, err := time.Parse(domain.DateLayout, startStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --start-date format. Please use YYYY-MM-DD. Error: %v\n", err)
			os.Exit(1)
		}
		end, err := time.Parse(domain.DateLayout, endStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --end-date format. Please use YYYY-MM-DD. Error: %v\n", err)
			os.Exit(1)
		}
		if end.Before(start) {
			fmt.Fprintln(os.Stderr, "--end-date must not be before --start-date")
			os.Exit(1)
		}
		if !gitx.IsRepository(repoPath) {
			fmt.Fprintf(os.Stderr, "Not a valid Git repository: %s\n", repoPath)
			os.Exit(1)
		}

		var dates []string
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d.Format(domain.DateLayout))
		}

		fmt.Printf("Bulk backdating %d dates from %s to %s\n", len(dates), startStr, endStr)

		rng := newRand()
		composer := usecase.NewComposer(newGitClient, rng, logger)
		bulk := usecase.NewBulk(composer, nil, nil, rng, logger)
		results := bulk.Backdate(domain.BulkRequest{
			RepoPath:       repoPath,
			Dates:          dates,
			CommitsPerDate: count,
			Push:           push,
		})

		printBulkResults(results, len(dates))
	},
}

// printBulkResults summarizes a date->error map, listing the failures.
func printBulkResults(results map[string]error, total int) {
	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		}
	}
	color.Green("Successfully backdated %d/%d dates", successes, total)
	for date, err := range results {
		if err != nil {
			color.Red("- %s: %v", date, err)
		}
	}
}

func init() {
	rootCmd.AddCommand(bulkCmd)
	bulkCmd.Flags().String("repo", "", "Path to the local git repository (required)")
	bulkCmd.Flags().String("start-date", "", "Start date, YYYY-MM-DD (required)")
	bulkCmd.Flags().String("end-date", "", "End date, YYYY-MM-DD (required)")
	bulkCmd.Flags().Int("count", 1, "Number of commits per date")
	bulkCmd.Flags().Bool("push", false, "Push the commits to GitHub after creating them")
	bulkCmd.MarkFlagRequired("repo")
	bulkCmd.MarkFlagRequired("start-date")
	bulkCmd.MarkFlagRequired("end-date")
}
