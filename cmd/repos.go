package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/streak-keeper/internal/domain"
	"github.com/naka-gawa/streak-keeper/internal/gateway"
)

// reposShown caps the suggestion table at the stalest repositories.
const reposShown = 10

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Lists repositories suitable for streak commits, oldest-updated first",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)
		cfg := loadConfig(cmd)

		fetcher, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		// The two calls are independent; fetch them concurrently.
		var login string
		var repos []domain.Repository
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			var err error
			login, err = fetcher.FetchViewer(egCtx)
			return err
		})
		eg.Go(func() error {
			var err error
			repos, err = fetcher.FetchRepositories(egCtx)
			return err
		})
		if err := eg.Wait(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch repositories: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Repositories for %s (oldest first):\n", login)
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Name", "Language", "Last updated"})
		for i, repo := range repos {
			if i >= reposShown {
				break
			}
			t.AppendRow(table.Row{i + 1, repo.Name, repo.Language, repo.UpdatedAt.Format(domain.DateLayout)})
		}
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(reposCmd)
}
