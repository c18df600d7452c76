package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/streak-keeper/internal/domain"
	"github.com/naka-gawa/streak-keeper/internal/gitx"
	"github.com/naka-gawa/streak-keeper/internal/usecase"
)

// newGitClient adapts gitx.Runner to the usecase factory seam.
func newGitClient(repoPath string) usecase.GitClient {
	return gitx.NewRunner(repoPath)
}

// newRand seeds a fresh rand source for production wiring. Tests construct
// their own seeded sources.
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Creates a single backdated commit in a local repository",
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		loadConfig(cmd)

		repoPath, _ := cmd.Flags().GetString("repo")
		dateStr, _ := cmd.Flags().GetString("date")
		message, _ := cmd.Flags().GetString("message")
		filePath, _ := cmd.Flags().GetString("file")
		content, _ := cmd.Flags().GetString("content")
		push, _ := cmd.Flags().GetBool("push")

		date, err := time.Parse(domain.DateLayout, dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --date format. Please use YYYY-MM-DD. Error: %v\n", err)
			os.Exit(1)
		}
		if !gitx.IsRepository(repoPath) {
			fmt.Fprintf(os.Stderr, "Not a valid Git repository: %s\n", repoPath)
			os.Exit(1)
		}

		composer := usecase.NewComposer(newGitClient, newRand(), logger)
		result := composer.Create(domain.CommitSpec{
			RepoPath: repoPath,
			Date:     date,
			Message:  message,
			FilePath: filePath,
			Content:  content,
			Push:     push,
		})
		if result.Err != nil {
			color.Red("Failed to create backdated commit: %v", result.Err)
			os.Exit(1)
		}
		color.Green("Successfully created backdated commit for %s", result.Date)
		if !push {
			fmt.Println("Note: Commit was not pushed to GitHub. Use --push to push changes.")
		}
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().String("repo", "", "Path to the local git repository (required)")
	commitCmd.Flags().String("date", "", "Date for the backdated commit, YYYY-MM-DD (required)")
	commitCmd.Flags().String("message", "", "Commit message (random plausible message if omitted)")
	commitCmd.Flags().String("file", "", "File to modify (default README.md)")
	commitCmd.Flags().String("content", "", "Content to write to the file")
	commitCmd.Flags().Bool("push", false, "Push the commit to GitHub")
	commitCmd.MarkFlagRequired("repo")
	commitCmd.MarkFlagRequired("date")
}
