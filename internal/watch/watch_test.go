package watch

import (
	"context"
	"io"
	"log"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/streak-keeper/internal/domain"
	"github.com/naka-gawa/streak-keeper/internal/usecase"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchViewer(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockFetcher) FetchRepositories(ctx context.Context) ([]domain.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockFetcher) FetchContributionCalendar(ctx context.Context, login string) ([]domain.ContributionDay, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContributionDay), args.Error(1)
}

type mockGitClient struct {
	mock.Mock
}

func (m *mockGitClient) Stage(relPath string) error {
	args := m.Called(relPath)
	return args.Error(0)
}

func (m *mockGitClient) Commit(message string, ts time.Time) error {
	args := m.Called(message, ts)
	return args.Error(0)
}

func (m *mockGitClient) Push() error {
	args := m.Called()
	return args.Error(0)
}

func newTestWatcher(t *testing.T, fetcher *mockFetcher, client *mockGitClient) *Watcher {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	rng := rand.New(rand.NewSource(1))
	composer := usecase.NewComposer(func(string) usecase.GitClient { return client }, rng, logger)
	analyzer := usecase.NewAnalyzerAt(logger, func() time.Time { return fixedNow })
	w := New(t.TempDir(), 10, 30, fetcher, analyzer, composer, rng, logger)
	w.now = func() time.Time { return fixedNow }
	return w
}

// calendarFor builds thirty days of activity ending today, with today's
// count controlled by the caller.
func calendarFor(todayCount int) []domain.ContributionDay {
	var days []domain.ContributionDay
	for i := 0; i < usecase.RecentEntriesBound; i++ {
		count := 1
		if i == 0 {
			count = todayCount
		}
		days = append(days, domain.ContributionDay{
			Date:  fixedNow.AddDate(0, 0, -i).Format(domain.DateLayout),
			Count: count,
		})
	}
	return days
}

func TestWatcher_CheckAndFill(t *testing.T) {
	t.Run("no action when today already has a contribution", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewer", mock.Anything).Return("octocat", nil)
		fetcher.On("FetchContributionCalendar", mock.Anything, "octocat").Return(calendarFor(2), nil)

		client := new(mockGitClient)
		w := newTestWatcher(t, fetcher, client)

		require.NoError(t, w.CheckAndFill(context.Background()))
		client.AssertNotCalled(t, "Commit")
		fetcher.AssertExpectations(t)
	})

	t.Run("creates and pushes a commit when today is missing", func(t *testing.T) {
		// Today absent from the calendar entirely.
		calendar := calendarFor(1)[1:]

		fetcher := new(mockFetcher)
		fetcher.On("FetchViewer", mock.Anything).Return("octocat", nil)
		fetcher.On("FetchContributionCalendar", mock.Anything, "octocat").Return(calendar, nil)

		client := new(mockGitClient)
		client.On("Stage", "README.md").Return(nil)
		var committedAt time.Time
		client.On("Commit", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			committedAt = args.Get(1).(time.Time)
		}).Return(nil)
		client.On("Push").Return(nil)

		w := newTestWatcher(t, fetcher, client)
		require.NoError(t, w.CheckAndFill(context.Background()))

		assert.Equal(t, fixedNow.Format(domain.DateLayout), committedAt.Format(domain.DateLayout))
		client.AssertExpectations(t)
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewer", mock.Anything).Return("", assert.AnError)

		w := newTestWatcher(t, fetcher, new(mockGitClient))
		assert.ErrorIs(t, w.CheckAndFill(context.Background()), assert.AnError)
	})

	t.Run("commit failure surfaces the cause", func(t *testing.T) {
		calendar := calendarFor(1)[1:]
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewer", mock.Anything).Return("octocat", nil)
		fetcher.On("FetchContributionCalendar", mock.Anything, "octocat").Return(calendar, nil)

		client := new(mockGitClient)
		client.On("Stage", mock.Anything).Return(assert.AnError)

		w := newTestWatcher(t, fetcher, client)
		assert.ErrorIs(t, w.CheckAndFill(context.Background()), assert.AnError)
	})
}

func TestWatcher_RandomizedSchedule(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	logger := log.New(io.Discard, "", 0)
	for i := 0; i < 50; i++ {
		w := New(t.TempDir(), -1, -1, nil, nil, nil, rng, logger)
		assert.GreaterOrEqual(t, w.hour, 9)
		assert.LessOrEqual(t, w.hour, 17)
		assert.GreaterOrEqual(t, w.minute, 0)
		assert.LessOrEqual(t, w.minute, 59)
	}
}

func TestWatcher_Tick_RunsOncePerDay(t *testing.T) {
	t.Run("failed check is not retried until the next day", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewer", mock.Anything).Return("", assert.AnError)

		// fixedNow (12:00) is past the 10:30 schedule.
		w := newTestWatcher(t, fetcher, new(mockGitClient))
		w.tick(context.Background())
		w.tick(context.Background())
		w.tick(context.Background())

		fetcher.AssertNumberOfCalls(t, "FetchViewer", 1)
	})

	t.Run("does not fire before the scheduled time", func(t *testing.T) {
		fetcher := new(mockFetcher)
		w := newTestWatcher(t, fetcher, new(mockGitClient))
		w.now = func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) }

		w.tick(context.Background())
		fetcher.AssertNotCalled(t, "FetchViewer")
	})

	t.Run("fires again on the next day", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewer", mock.Anything).Return("", assert.AnError)

		w := newTestWatcher(t, fetcher, new(mockGitClient))
		w.tick(context.Background())

		w.now = func() time.Time { return fixedNow.AddDate(0, 0, 1) }
		w.tick(context.Background())

		fetcher.AssertNumberOfCalls(t, "FetchViewer", 2)
	})

	t.Run("successful check also consumes the day", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewer", mock.Anything).Return("octocat", nil)
		fetcher.On("FetchContributionCalendar", mock.Anything, "octocat").Return(calendarFor(2), nil)

		w := newTestWatcher(t, fetcher, new(mockGitClient))
		w.tick(context.Background())
		w.tick(context.Background())

		fetcher.AssertNumberOfCalls(t, "FetchViewer", 1)
	})
}

func TestWatcher_CheckAndFill_UsesLocalDate(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	localNow := time.Date(2024, 6, 15, 23, 30, 0, 0, loc)

	fetcher := new(mockFetcher)
	fetcher.On("FetchViewer", mock.Anything).Return("octocat", nil)
	fetcher.On("FetchContributionCalendar", mock.Anything, "octocat").Return([]domain.ContributionDay{}, nil)

	client := new(mockGitClient)
	client.On("Stage", "README.md").Return(nil)
	var committedAt time.Time
	client.On("Commit", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		committedAt = args.Get(1).(time.Time)
	}).Return(nil)
	client.On("Push").Return(nil)

	logger := log.New(io.Discard, "", 0)
	rng := rand.New(rand.NewSource(1))
	composer := usecase.NewComposer(func(string) usecase.GitClient { return client }, rng, logger)
	analyzer := usecase.NewAnalyzerAt(logger, func() time.Time { return localNow })
	w := New(t.TempDir(), 10, 30, fetcher, analyzer, composer, rng, logger)
	w.now = func() time.Time { return localNow }

	require.NoError(t, w.CheckAndFill(context.Background()))

	// The commit lands on the local calendar day, in the local zone.
	assert.Equal(t, "2024-06-15", committedAt.Format(domain.DateLayout))
	_, offset := committedAt.Zone()
	assert.Equal(t, 9*3600, offset)
}

func TestWatcher_Run_StopsOnCancel(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchViewer", mock.Anything).Return("octocat", nil)
	fetcher.On("FetchContributionCalendar", mock.Anything, "octocat").Return(calendarFor(2), nil)

	w := newTestWatcher(t, fetcher, new(mockGitClient))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
