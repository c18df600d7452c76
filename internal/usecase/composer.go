package usecase

import (
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/naka-gawa/streak-keeper/internal/domain"
)

// commitMessages is the pool of generic messages drawn from when a commit
// spec does not supply one.
var commitMessages = []string{
	"Update README.md",
	"Fix typo in documentation",
	"Add comments for clarity",
	"Clean up code formatting",
	"Refactor utility function",
	"Update dependencies",
	"Add missing documentation",
	"Fix minor bug in error handling",
	"Improve code readability",
	"Add unit test for edge case",
	"Optimize performance",
	"Improve error messages",
	"Update configuration",
	"Fix linting issues",
	"Add new feature implementation",
	"Implement requested changes",
	"Remove deprecated code",
	"Update documentation",
	"Fix edge case",
	"Merge recent changes",
	"Add new test cases",
	"Improve logging",
}

// defaultFilePath is the file touched when a commit spec names no file.
const defaultFilePath = "README.md"

// GitClient is the subset of git operations the composer needs.
// Satisfied by *gitx.Runner.
type GitClient interface {
	Stage(relPath string) error
	Commit(message string, ts time.Time) error
	Push() error
}

// GitClientFactory builds a GitClient bound to a repository path.
type GitClientFactory func(repoPath string) GitClient

// Composer creates single backdated commits from commit specs.
type Composer struct {
	newClient GitClientFactory
	rng       *rand.Rand
	logger    *log.Logger
	now       func() time.Time
}

// NewComposer creates a new Composer instance. The rand source is injected
// so tests can seed it for deterministic timestamps and messages.
func NewComposer(newClient GitClientFactory, rng *rand.Rand, logger *log.Logger) *Composer {
	return &Composer{newClient: newClient, rng: rng, logger: logger, now: time.Now}
}

// Create makes a single backdated commit described by spec. Failures are
// reported through the result's Err field with the original cause preserved;
// a partially written file from a failed attempt is left on disk.
func (c *Composer) Create(spec domain.CommitSpec) domain.CommitResult {
	ts := spec.Date
	// A bare date gets a random time within business hours so commit
	// times look organic.
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 {
		ts = time.Date(ts.Year(), ts.Month(), ts.Day(),
			9+c.rng.Intn(11), c.rng.Intn(60), c.rng.Intn(60), 0, ts.Location())
	}

	message := spec.Message
	if message == "" {
		message = commitMessages[c.rng.Intn(len(commitMessages))]
	}

	filePath := spec.FilePath
	if filePath == "" {
		filePath = defaultFilePath
	}

	result := domain.CommitResult{
		Date:     spec.Date.Format(domain.DateLayout),
		FilePath: filePath,
		Message:  message,
	}

	fullPath := filepath.Join(spec.RepoPath, filePath)
	content := spec.Content
	if content == "" {
		existing, err := os.ReadFile(fullPath)
		if err == nil {
			content = string(existing) + "\n\n<!-- Updated: " + c.now().Format(time.RFC3339) + " -->"
		} else {
			content = "# Placeholder\n\nThis file was created by streak-keeper.\n\n<!-- Created: " + c.now().Format(time.RFC3339) + " -->"
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		c.logger.Printf("Failed to create directory for %s: %v\n", fullPath, err)
		result.Err = err
		return result
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		c.logger.Printf("Failed to write %s: %v\n", fullPath, err)
		result.Err = err
		return result
	}

	client := c.newClient(spec.RepoPath)
	if err := client.Stage(filePath); err != nil {
		c.logger.Printf("Failed to stage %s: %v\n", filePath, err)
		result.Err = err
		return result
	}
	if err := client.Commit(message, ts); err != nil {
		c.logger.Printf("Failed to commit for %s: %v\n", result.Date, err)
		result.Err = err
		return result
	}
	if spec.Push {
		if err := client.Push(); err != nil {
			c.logger.Printf("Failed to push: %v\n", err)
			result.Err = err
			return result
		}
	}

	c.logger.Printf("Created backdated commit for %s (%s)\n", result.Date, message)
	return result
}
