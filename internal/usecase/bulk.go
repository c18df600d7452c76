package usecase

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/naka-gawa/streak-keeper/internal/domain"
	"github.com/naka-gawa/streak-keeper/internal/gateway"
)

// Bulk orchestrates backdated commits across many dates, either from an
// explicit date range or from analyzer-detected gaps.
type Bulk struct {
	composer *Composer
	fetcher  gateway.Fetcher
	analyzer *Analyzer
	rng      *rand.Rand
	logger   *log.Logger
	sleep    func(time.Duration)
	now      func() time.Time
}

// NewBulk creates a new Bulk instance. The sleep function is injected so
// tests can skip the randomized inter-commit pauses.
func NewBulk(composer *Composer, fetcher gateway.Fetcher, analyzer *Analyzer, rng *rand.Rand, logger *log.Logger) *Bulk {
	return &Bulk{
		composer: composer,
		fetcher:  fetcher,
		analyzer: analyzer,
		rng:      rng,
		logger:   logger,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Backdate creates req.CommitsPerDate commits for every date in req.Dates,
// each touching a distinct file. A randomized pause between commits after
// the first avoids suspiciously uniform timing. The first failing commit
// marks its date failed (the cause is kept in the returned map) and the
// remaining commits for that date are skipped. The push, when requested,
// happens once after all dates rather than per commit.
func (b *Bulk) Backdate(req domain.BulkRequest) map[string]error {
	results := make(map[string]error, len(req.Dates))
	anySuccess := false

	for _, dateStr := range req.Dates {
		date, err := time.Parse(domain.DateLayout, dateStr)
		if err != nil {
			results[dateStr] = fmt.Errorf("invalid date %q: %w", dateStr, err)
			continue
		}

		var dateErr error
		for i := 0; i < req.CommitsPerDate; i++ {
			if i > 0 {
				// 0.5s to 2.0s between commits on the same date.
				b.sleep(time.Duration(500+b.rng.Intn(1500)) * time.Millisecond)
			}
			result := b.composer.Create(domain.CommitSpec{
				RepoPath: req.RepoPath,
				Date:     date,
				Message:  fmt.Sprintf("Update for %s (%d/%d)", dateStr, i+1, req.CommitsPerDate),
				FilePath: fmt.Sprintf("streak_updates/%s/%d.md", dateStr, i),
				Content: fmt.Sprintf("# Update for %s\n\nCommit #%d of %d\n\nGenerated by streak-keeper\n",
					dateStr, i+1, req.CommitsPerDate),
			})
			if result.Err != nil {
				dateErr = result.Err
				break
			}
		}

		results[dateStr] = dateErr
		if dateErr == nil {
			anySuccess = true
		}
	}

	if req.Push && anySuccess {
		client := b.composer.newClient(req.RepoPath)
		if err := client.Push(); err != nil {
			b.logger.Printf("Failed to push bulk commits: %v\n", err)
			// Pushing is all-or-nothing for the invocation; fold the
			// failure into every date that had succeeded locally.
			for dateStr, dateErr := range results {
				if dateErr == nil {
					results[dateStr] = err
				}
			}
		}
	}
	return results
}

// FillMissingDates analyzes the authenticated user's calendar over the fixed
// default window, keeps the missing dates within daysBack of today, and
// backdates a randomized 1-3 commits onto each.
func (b *Bulk) FillMissingDates(ctx context.Context, repoPath string, daysBack int, push bool) (map[string]error, error) {
	login, err := b.fetcher.FetchViewer(ctx)
	if err != nil {
		return nil, err
	}
	calendar, err := b.fetcher.FetchContributionCalendar(ctx, login)
	if err != nil {
		return nil, err
	}

	report := b.analyzer.Analyze(calendar, DefaultWindowDays)

	cutoff := b.now().AddDate(0, 0, -daysBack).Format(domain.DateLayout)
	var dates []string
	for _, date := range report.MissingDates {
		if date >= cutoff {
			dates = append(dates, date)
		}
	}
	if len(dates) == 0 {
		b.logger.Println("No missing dates found in the requested range.")
		return map[string]error{}, nil
	}
	sort.Strings(dates)

	return b.Backdate(domain.BulkRequest{
		RepoPath:       repoPath,
		Dates:          dates,
		CommitsPerDate: 1 + b.rng.Intn(3),
		Push:           push,
	}), nil
}
