// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// DateLayout is the calendar-date format used throughout the application.
// It matches the format GitHub's contribution calendar reports dates in.
const DateLayout = "2006-01-02"

// ContributionDay is a single day of the fetched contribution calendar.
type ContributionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StreakReport is the result of analyzing a contribution calendar.
// It is recomputed on every analysis call and never persisted.
type StreakReport struct {
	CurrentStreak  int               `json:"current_streak"`
	LongestStreak  int               `json:"longest_streak"`
	MissingDates   []string          `json:"missing_dates"`
	LastCommitDate string            `json:"last_commit_date,omitempty"`
	RecentDays     []ContributionDay `json:"recent_days"`

	// ActiveDayAverage and MaxDayCount summarize the positive daily counts
	// within RecentDays. Both are zero when there is no activity at all.
	ActiveDayAverage float64 `json:"active_day_average"`
	MaxDayCount      float64 `json:"max_day_count"`
}

// CommitSpec describes a single backdated commit to create.
// It is constructed per commit and consumed exactly once.
type CommitSpec struct {
	RepoPath string
	Date     time.Time
	Message  string
	FilePath string
	Content  string
	Push     bool
}

// CommitResult is the outcome of a single commit attempt. A nil Err means
// the commit was created. The original cause is preserved rather than being
// collapsed into a boolean so callers can log or test against it.
type CommitResult struct {
	Date     string
	FilePath string
	Message  string
	Err      error
}

// OK reports whether the commit was created successfully.
func (r CommitResult) OK() bool { return r.Err == nil }

// BulkRequest describes a bulk backdating run over an ordered set of dates.
type BulkRequest struct {
	RepoPath       string
	Dates          []string
	CommitsPerDate int
	Push           bool
}

// Repository is the subset of repository metadata used for suggestions.
type Repository struct {
	Name      string    `json:"name"`
	Language  string    `json:"language,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
