package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/streak-keeper/internal/gateway"
	"github.com/naka-gawa/streak-keeper/internal/usecase"
)

// missingDatesShown truncates the printed list of missing dates.
const missingDatesShown = 10

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyzes the contribution calendar and reports streak status",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)
		cfg := loadConfig(cmd)

		fetcher, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		username, _ := cmd.Flags().GetString("username")
		if username == "" {
			username, err = fetcher.FetchViewer(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to resolve authenticated user: %v\n", err)
				os.Exit(1)
			}
		}

		calendar, err := fetcher.FetchContributionCalendar(ctx, username)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch contribution calendar: %v\n", err)
			os.Exit(1)
		}

		report := usecase.NewAnalyzer(logger).Analyze(calendar, usecase.DefaultWindowDays)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal report to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		fmt.Printf("Current streak: %d days\n", report.CurrentStreak)
		fmt.Printf("Longest streak: %d days\n", report.LongestStreak)
		if report.LastCommitDate != "" {
			fmt.Printf("Last commit: %s\n", report.LastCommitDate)
		}
		if report.ActiveDayAverage > 0 {
			fmt.Printf("Average contributions per active day: %.1f (max %.0f)\n",
				report.ActiveDayAverage, report.MaxDayCount)
		}

		if len(report.MissingDates) == 0 {
			color.Green("Your streak is complete! No missing dates found.")
			return
		}
		color.Yellow("Missing dates in your recent history:")
		for i, date := range report.MissingDates {
			if i >= missingDatesShown {
				fmt.Printf("... and %d more\n", len(report.MissingDates)-missingDatesShown)
				break
			}
			fmt.Printf("- %s\n", date)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("username", "u", "", "GitHub username to analyze (defaults to the authenticated user)")
	analyzeCmd.Flags().Bool("json", false, "Print the full report as JSON")
}
