package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/pitchside/internal/domain/match"
	"github.com/pitchside/pitchside/internal/domain/playerstats"
)

func newMatchQueryFixture(t *testing.T) (*MatchQueryService, *fakeMatchRepo, *fakeOddsRepo, *fakePlayerStatsRepo) {
	t.Helper()
	matches, teams := seedStandingsFixture(t)
	odds := &fakeOddsRepo{}
	teamStats := newFakeTeamStatsRepo()
	playerStats := newFakePlayerStatsRepo()
	svc := NewMatchQueryService(matches, teams, odds, teamStats, playerStats)
	return svc, matches, odds, playerStats
}

func TestListBetween(t *testing.T) {
	ctx := context.Background()
	svc, _, odds, _ := newMatchQueryFixture(t)

	home := 2.1
	require.NoError(t, odds.Insert(ctx, match.Odds{MatchID: 1, HomeOdds: &home, Provider: "consensus"}))

	summaries, err := svc.ListBetween(ctx, day("2026-08-09"), day("2026-08-13"))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Descending by date: e2 then e1.
	assert.Equal(t, "Chelsea", summaries[0].HomeTeam)
	assert.Equal(t, "Arsenal", summaries[1].HomeTeam)
	require.NotNil(t, summaries[1].LatestOdds)
	assert.InDelta(t, 2.1, *summaries[1].LatestOdds.HomeOdds, 0.001)
	assert.Nil(t, summaries[0].LatestOdds)
}

func TestListBetweenRejectsInvertedRange(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newMatchQueryFixture(t)

	_, err := svc.ListBetween(ctx, day("2026-08-13"), day("2026-08-09"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetDetail(t *testing.T) {
	ctx := context.Background()
	svc, _, odds, playerStats := newMatchQueryFixture(t)

	home := 1.8
	away := 4.2
	require.NoError(t, odds.Insert(ctx, match.Odds{MatchID: 1, HomeOdds: &home, Provider: "early"}))
	require.NoError(t, odds.Insert(ctx, match.Odds{MatchID: 1, AwayOdds: &away, Provider: "late"}))
	require.NoError(t, playerStats.ReplaceForMatch(ctx, 1, []playerstats.PlayerMatchStats{
		{MatchID: 1, PlayerID: 7, TeamID: 1, Goals: 2},
	}))

	detail, err := svc.GetDetail(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, "Arsenal", detail.HomeTeam)
	assert.Equal(t, "Chelsea", detail.AwayTeam)
	require.Len(t, detail.OddsHistory, 2)
	require.NotNil(t, detail.LatestOdds)
	assert.Equal(t, "late", detail.LatestOdds.Provider)
	require.Len(t, detail.PlayerStatistics, 1)
	assert.Equal(t, 2, detail.PlayerStatistics[0].Goals)
}

func TestGetDetailUnknownMatch(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newMatchQueryFixture(t)

	_, err := svc.GetDetail(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}
