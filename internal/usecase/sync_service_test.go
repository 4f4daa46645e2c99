package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/pitchside/internal/domain/ingestrun"
	"github.com/pitchside/pitchside/internal/domain/match"
	"github.com/pitchside/pitchside/internal/platform/logging"
)

type scriptedFeed struct {
	requested []time.Time
	events    map[string][]ExternalEvent
	failDays  map[string]error
}

func newScriptedFeed() *scriptedFeed {
	return &scriptedFeed{
		events:   make(map[string][]ExternalEvent),
		failDays: make(map[string]error),
	}
}

func (f *scriptedFeed) FetchScoreboard(_ context.Context, day time.Time) ([]ExternalEvent, error) {
	f.requested = append(f.requested, day)
	key := day.Format("2006-01-02")
	if err, ok := f.failDays[key]; ok {
		return nil, err
	}
	return f.events[key], nil
}

type recordingExtractor struct {
	stored  []string
	failIDs map[string]error
}

func (e *recordingExtractor) ExtractAndStore(_ context.Context, event ExternalEvent) error {
	if err, ok := e.failIDs[event.ExternalID]; ok {
		return err
	}
	e.stored = append(e.stored, event.ExternalID)
	return nil
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func dayStrings(days []time.Time) []string {
	if days == nil {
		return nil
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

func TestPlanBackfillDays(t *testing.T) {
	today := day("2026-08-25")

	tests := []struct {
		name      string
		latest    time.Time
		hasLatest bool
		maxDays   int
		want      []string
	}{
		{
			name:      "latest three days ago",
			latest:    day("2026-08-22"),
			hasLatest: true,
			maxDays:   90,
			want:      []string{"2026-08-23", "2026-08-24", "2026-08-25"},
		},
		{
			name:      "latest yesterday",
			latest:    day("2026-08-24"),
			hasLatest: true,
			maxDays:   90,
			want:      []string{"2026-08-25"},
		},
		{
			name:      "latest today yields nothing",
			latest:    day("2026-08-25"),
			hasLatest: true,
			maxDays:   90,
			want:      nil,
		},
		{
			name:      "latest in the future yields nothing",
			latest:    day("2026-08-30"),
			hasLatest: true,
			maxDays:   90,
			want:      nil,
		},
		{
			name:      "gap beyond the cap drops oldest days",
			latest:    day("2026-05-01"),
			hasLatest: true,
			maxDays:   5,
			want:      []string{"2026-08-21", "2026-08-22", "2026-08-23", "2026-08-24", "2026-08-25"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := planBackfillDays(tc.latest, tc.hasLatest, today, tc.maxDays)
			assert.Equal(t, tc.want, dayStrings(got))
		})
	}
}

func TestPlanBackfillDaysEmptyStore(t *testing.T) {
	today := day("2026-08-25")

	got := planBackfillDays(time.Time{}, false, today, 90)

	require.Len(t, got, 90)
	assert.Equal(t, "2026-08-25", got[len(got)-1].Format("2006-01-02"), "today is always covered")
	assert.Equal(t, "2026-05-28", got[0].Format("2006-01-02"))
}

func newSyncFixture(matches *fakeMatchRepo) (*SyncService, *scriptedFeed, *recordingExtractor, *fakeRunRepo) {
	feed := newScriptedFeed()
	extractor := &recordingExtractor{}
	runs := &fakeRunRepo{}
	svc := NewSyncService(feed, extractor, matches, runs, SyncConfig{
		BackfillMaxDays: 90,
		ForwardDays:     2,
		RequestDelay:    time.Millisecond,
	}, logging.NewNop())
	svc.now = func() time.Time { return day("2026-08-25") }
	return svc, feed, extractor, runs
}

func TestRunStartupSyncBackfillsThenFetchesForward(t *testing.T) {
	ctx := context.Background()

	matches := newFakeMatchRepo()
	_, err := matches.Upsert(ctx, completedStoredMatch("evt-old", day("2026-08-22")))
	require.NoError(t, err)

	svc, feed, extractor, runs := newSyncFixture(matches)
	feed.events["2026-08-23"] = []ExternalEvent{{ExternalID: "evt-a"}}
	feed.events["2026-08-25"] = []ExternalEvent{{ExternalID: "evt-b"}, {ExternalID: "evt-c"}}

	svc.RunStartupSync(ctx)

	// Three backfill days plus a two day forward window, one request each.
	assert.Equal(t, []string{
		"2026-08-23", "2026-08-24", "2026-08-25",
		"2026-08-25", "2026-08-26",
	}, dayStrings(feed.requested))

	// The forward window re-requests today, so both events surface twice.
	assert.Equal(t, []string{"evt-a", "evt-b", "evt-c", "evt-b", "evt-c"}, extractor.stored)

	require.Len(t, runs.runs, 5)
	assert.Equal(t, ingestrun.TypeBackfill, runs.runs[0].RunType)
	assert.Equal(t, ingestrun.TypeForward, runs.runs[3].RunType)
	for _, run := range runs.runs {
		assert.Equal(t, ingestrun.StatusSucceeded, run.Status)
	}
}

func TestRunStartupSyncAbandonsOnlyTheFailedDay(t *testing.T) {
	ctx := context.Background()

	matches := newFakeMatchRepo()
	_, err := matches.Upsert(ctx, completedStoredMatch("evt-old", day("2026-08-23")))
	require.NoError(t, err)

	svc, feed, extractor, runs := newSyncFixture(matches)
	feed.failDays["2026-08-24"] = fmt.Errorf("scoreboard returned status 503")
	feed.events["2026-08-25"] = []ExternalEvent{{ExternalID: "evt-d"}}

	svc.RunStartupSync(ctx)

	assert.Equal(t, []string{
		"2026-08-24", "2026-08-25",
		"2026-08-25", "2026-08-26",
	}, dayStrings(feed.requested))
	assert.Equal(t, []string{"evt-d", "evt-d"}, extractor.stored)

	require.Len(t, runs.runs, 4)
	assert.Equal(t, ingestrun.StatusFailed, runs.runs[0].Status)
	assert.Contains(t, runs.runs[0].ErrorMessage, "503")
	assert.Equal(t, ingestrun.StatusSucceeded, runs.runs[1].Status)
}

func TestRunStartupSyncSkipsFailingEventsNotTheDay(t *testing.T) {
	ctx := context.Background()

	svc, feed, extractor, runs := newSyncFixture(newFakeMatchRepo())
	svc.cfg.ForwardDays = 1
	svc.cfg.BackfillMaxDays = 1

	feed.events["2026-08-25"] = []ExternalEvent{
		{ExternalID: "evt-bad"},
		{ExternalID: "evt-good"},
	}
	extractor.failIDs = map[string]error{"evt-bad": fmt.Errorf("upsert match: boom")}

	svc.RunStartupSync(ctx)

	assert.Contains(t, extractor.stored, "evt-good")

	require.NotEmpty(t, runs.runs)
	last := runs.runs[len(runs.runs)-1]
	assert.Equal(t, ingestrun.StatusSucceeded, last.Status)
	assert.Equal(t, 2, last.EventsSeen)
	assert.Equal(t, 1, last.EventsStored)
}

func TestRunStartupSyncStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	matches := newFakeMatchRepo()
	_, err := matches.Upsert(ctx, completedStoredMatch("evt-old", day("2026-08-20")))
	require.NoError(t, err)

	svc, feed, _, _ := newSyncFixture(matches)
	svc.cfg.RequestDelay = time.Hour
	cancel()

	svc.RunStartupSync(ctx)

	// The first day runs before the first inter-request pause notices the
	// dead context.
	assert.Len(t, feed.requested, 1)
}

func completedStoredMatch(externalID string, on time.Time) match.Match {
	return match.Match{
		ExternalEventID: externalID,
		HomeTeamID:      1,
		AwayTeamID:      2,
		Date:            on,
		Status:          match.StatusCompleted,
	}
}
