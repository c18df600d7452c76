package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/streak-keeper/internal/config"
	"github.com/naka-gawa/streak-keeper/internal/gateway"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Stores the GitHub token and verifies API access",
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			fmt.Print("Enter your GitHub Personal Access Token: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to read token: %v\n", err)
				os.Exit(1)
			}
			token = strings.TrimSpace(line)
		}

		cfg.Token = token
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration saved to %s\n", cfg.Path)
		fmt.Println("Testing GitHub API connection...")

		fetcher, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		login, err := fetcher.FetchViewer(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to GitHub API: %v\n", err)
			os.Exit(1)
		}
		color.Green("Successfully authenticated as: %s", login)
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().String("token", "", "GitHub Personal Access Token (prompted for if omitted)")
}
