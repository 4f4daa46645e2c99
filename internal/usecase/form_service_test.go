package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/pitchside/internal/domain/teamstats"
)

func TestRecentForm(t *testing.T) {
	ctx := context.Background()
	matches, teams := seedStandingsFixture(t)

	stats := newFakeTeamStatsRepo()
	require.NoError(t, stats.ReplaceForMatch(ctx, 1, []teamstats.MatchStatistics{
		{MatchID: 1, TeamID: 1, Possession: 61.0, Shots: 15, ShotsOnTarget: 7},
		{MatchID: 1, TeamID: 2, Possession: 39.0, Shots: 6, ShotsOnTarget: 1},
	}))

	svc := NewFormService(matches, teams, stats)

	entries, err := svc.RecentForm(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Most recent first: the away win at Spurs, then the home win.
	assert.Equal(t, "W", entries[0].Result)
	assert.Equal(t, "Spurs", entries[0].Opponent)
	assert.False(t, entries[0].Home)
	assert.Equal(t, 3, entries[0].GoalsFor)
	assert.Equal(t, 0, entries[0].GoalsAgainst)

	assert.Equal(t, "W", entries[1].Result)
	assert.Equal(t, "Chelsea", entries[1].Opponent)
	assert.True(t, entries[1].Home)
	require.NotNil(t, entries[1].Statistics)
	assert.InDelta(t, 61.0, entries[1].Statistics.Possession, 0.001)
}

func TestRecentFormRespectsLimit(t *testing.T) {
	ctx := context.Background()
	matches, teams := seedStandingsFixture(t)

	svc := NewFormService(matches, teams, newFakeTeamStatsRepo())

	entries, err := svc.RecentForm(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Spurs", entries[0].Opponent)
}

func TestRecentFormUnknownTeam(t *testing.T) {
	ctx := context.Background()
	matches, teams := seedStandingsFixture(t)

	svc := NewFormService(matches, teams, newFakeTeamStatsRepo())

	_, err := svc.RecentForm(ctx, 99, 5)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RecentForm(ctx, 0, 5)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestHeadToHead(t *testing.T) {
	ctx := context.Background()
	matches, teams := seedStandingsFixture(t)

	svc := NewFormService(matches, teams, newFakeTeamStatsRepo())

	summary, err := svc.HeadToHead(ctx, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TeamAWins)
	assert.Equal(t, 0, summary.TeamBWins)
	assert.Equal(t, 0, summary.Draws)
	require.Len(t, summary.LastMeetings, 1)
	assert.Equal(t, "Chelsea", summary.LastMeetings[0].Opponent)
	assert.Equal(t, "W", summary.LastMeetings[0].Result)
}

func TestHeadToHeadValidatesInput(t *testing.T) {
	ctx := context.Background()
	matches, teams := seedStandingsFixture(t)

	svc := NewFormService(matches, teams, newFakeTeamStatsRepo())

	_, err := svc.HeadToHead(ctx, 1, 1)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.HeadToHead(ctx, 0, 2)
	require.ErrorIs(t, err, ErrInvalidInput)
}
