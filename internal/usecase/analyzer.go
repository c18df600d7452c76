// Package usecase contains the business logic of the application.
package usecase

import (
	"log"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/streak-keeper/internal/domain"
)

const (
	// RecentEntriesBound caps how many of the most recent fetched calendar
	// entries the missing-date check consults. Dates older than this bound
	// are reported missing even when the calendar has data for them,
	// regardless of the requested window size.
	RecentEntriesBound = 30

	// RecentDaysLimit bounds how many days are echoed back in a report.
	RecentDaysLimit = 90

	// DefaultWindowDays is the trailing window used when callers do not
	// choose one.
	DefaultWindowDays = 30
)

// Analyzer computes streak reports from a fetched contribution calendar.
type Analyzer struct {
	logger *log.Logger
	now    func() time.Time
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(logger *log.Logger) *Analyzer {
	return &Analyzer{logger: logger, now: time.Now}
}

// NewAnalyzerAt creates an Analyzer with a fixed clock. Used by tests.
func NewAnalyzerAt(logger *log.Logger, now func() time.Time) *Analyzer {
	return &Analyzer{logger: logger, now: now}
}

// Analyze computes the streak report for the given calendar over a trailing
// window of windowDays calendar dates ending today.
func (a *Analyzer) Analyze(calendar []domain.ContributionDay, windowDays int) domain.StreakReport {
	a.logger.Printf("Analyzing %d contribution days over a %d-day window...\n", len(calendar), windowDays)

	// Newest first. Work on a copy so the caller's slice stays untouched.
	days := make([]domain.ContributionDay, len(calendar))
	copy(days, calendar)
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })

	report := domain.StreakReport{MissingDates: []string{}}

	// Current streak: walk back from the most recent fetched day while
	// counts stay positive. Only days present in the calendar are
	// inspected; a gap in the fetched data is invisible to this pass.
	for _, day := range days {
		if day.Count <= 0 {
			break
		}
		report.CurrentStreak++
	}

	// Longest streak: single ascending scan, flushing the running length
	// at the end in case the newest days are all positive.
	running := 0
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Count > 0 {
			running++
			continue
		}
		if running > report.LongestStreak {
			report.LongestStreak = running
		}
		running = 0
	}
	if running > report.LongestStreak {
		report.LongestStreak = running
	}

	// Missing dates: every date in the trailing window that does not
	// appear among the most recent RecentEntriesBound fetched entries.
	// A present day with an explicit zero count is not missing.
	recent := days
	if len(recent) > RecentEntriesBound {
		recent = recent[:RecentEntriesBound]
	}
	seen := make(map[string]struct{}, len(recent))
	for _, day := range recent {
		seen[day.Date] = struct{}{}
	}
	today := a.now()
	for i := windowDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(domain.DateLayout)
		if _, ok := seen[date]; !ok {
			report.MissingDates = append(report.MissingDates, date)
		}
	}

	if len(days) > 0 && days[0].Count > 0 {
		report.LastCommitDate = days[0].Date
	}

	report.RecentDays = days
	if len(report.RecentDays) > RecentDaysLimit {
		report.RecentDays = report.RecentDays[:RecentDaysLimit]
	}

	var active []float64
	for _, day := range report.RecentDays {
		if day.Count > 0 {
			active = append(active, float64(day.Count))
		}
	}
	if len(active) > 0 {
		// stats only errors on empty input, which is excluded here.
		report.ActiveDayAverage, _ = stats.Mean(active)
		report.MaxDayCount, _ = stats.Max(active)
	}

	a.logger.Printf("Analysis complete: current=%d longest=%d missing=%d\n",
		report.CurrentStreak, report.LongestStreak, len(report.MissingDates))
	return report
}
