// Package watch implements the long-running daily streak check.
package watch

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/naka-gawa/streak-keeper/internal/domain"
	"github.com/naka-gawa/streak-keeper/internal/gateway"
	"github.com/naka-gawa/streak-keeper/internal/usecase"
)

// pollInterval is how often the loop wakes to compare the wall clock
// against the scheduled daily time.
const pollInterval = time.Minute

// Watcher runs one streak check per day at a scheduled (by default
// randomized) time, creating a commit for today when it is missing.
type Watcher struct {
	repoPath string
	hour     int
	minute   int

	fetcher  gateway.Fetcher
	analyzer *usecase.Analyzer
	composer *usecase.Composer
	logger   *log.Logger
	now      func() time.Time

	// lastRun is the date of the last attempted daily check. A failed
	// check consumes the day too; the next attempt waits for tomorrow.
	lastRun string
}

// New creates a Watcher for the repository at repoPath. Pass -1 for hour or
// minute to have a time picked at random within working hours, so the daily
// commit does not land at the same minute every day.
func New(repoPath string, hour, minute int, fetcher gateway.Fetcher, analyzer *usecase.Analyzer, composer *usecase.Composer, rng *rand.Rand, logger *log.Logger) *Watcher {
	if hour < 0 {
		hour = 9 + rng.Intn(9) // 9:00 through 17:59
	}
	if minute < 0 {
		minute = rng.Intn(60)
	}
	return &Watcher{
		repoPath: repoPath,
		hour:     hour,
		minute:   minute,
		fetcher:  fetcher,
		analyzer: analyzer,
		composer: composer,
		logger:   logger,
		now:      time.Now,
	}
}

// Run performs one check immediately, then polls until ctx is cancelled,
// running the daily check each day once the scheduled time has passed.
// A check runs at most once per day; there is no retry on failure.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Printf("Starting streak watcher for repository: %s\n", w.repoPath)
	w.logger.Printf("Daily check scheduled at %02d:%02d\n", w.hour, w.minute)

	w.lastRun = w.now().Format(domain.DateLayout)
	if err := w.CheckAndFill(ctx); err != nil {
		w.logger.Printf("Initial streak check failed: %v\n", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Println("Watcher stopped.")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick runs the daily check when the scheduled time for today has passed
// and today's check has not been attempted yet. The attempt marks the day
// done whether it succeeds or fails.
func (w *Watcher) tick(ctx context.Context) {
	now := w.now()
	today := now.Format(domain.DateLayout)
	if w.lastRun == today {
		return
	}
	scheduled := time.Date(now.Year(), now.Month(), now.Day(), w.hour, w.minute, 0, 0, now.Location())
	if now.Before(scheduled) {
		return
	}
	w.lastRun = today
	if err := w.CheckAndFill(ctx); err != nil {
		w.logger.Printf("Daily streak check failed: %v\n", err)
	}
}

// CheckAndFill analyzes the calendar and, when today has no contribution
// yet, creates and pushes a commit for today.
func (w *Watcher) CheckAndFill(ctx context.Context) error {
	w.logger.Println("Checking GitHub contribution streak...")

	login, err := w.fetcher.FetchViewer(ctx)
	if err != nil {
		return err
	}
	calendar, err := w.fetcher.FetchContributionCalendar(ctx, login)
	if err != nil {
		return err
	}
	report := w.analyzer.Analyze(calendar, usecase.DefaultWindowDays)

	now := w.now()
	today := now.Format(domain.DateLayout)
	if !contains(report.MissingDates, today) {
		w.logger.Println("Already have a contribution for today. No action needed.")
		return nil
	}

	w.logger.Println("No contribution found for today. Creating one...")
	// Midnight in the local zone; the composer fills in a business-hours
	// time in the same location.
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	result := w.composer.Create(domain.CommitSpec{
		RepoPath: w.repoPath,
		Date:     date,
		Push:     true,
	})
	if result.Err != nil {
		w.logger.Printf("Failed to create commit for today: %v\n", result.Err)
		return result.Err
	}
	w.logger.Println("Successfully created commit for today.")
	return nil
}

func contains(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}
