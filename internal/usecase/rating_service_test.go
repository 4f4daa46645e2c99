package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/pitchside/internal/domain/match"
	"github.com/pitchside/pitchside/internal/domain/player"
	"github.com/pitchside/pitchside/internal/domain/playerstats"
)

func TestComputeRating(t *testing.T) {
	tests := []struct {
		name          string
		goals         int
		shotsOnTarget int
		appearances   int
		want          float64
	}{
		{name: "baseline", want: 5.0},
		{name: "typical season", goals: 2, shotsOnTarget: 4, appearances: 10, want: 7.8},
		{name: "shots term capped", goals: 0, shotsOnTarget: 50, appearances: 0, want: 7.0},
		{name: "appearances term capped", goals: 0, shotsOnTarget: 0, appearances: 40, want: 7.0},
		{name: "clamped at ten", goals: 20, shotsOnTarget: 50, appearances: 40, want: 10.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, computeRating(tc.goals, tc.shotsOnTarget, tc.appearances), 0.0001)
		})
	}
}

func TestRating(t *testing.T) {
	ctx := context.Background()

	players := newFakePlayerRepo()
	saka, err := players.Upsert(ctx, player.Player{ExternalID: "p-saka", Name: "Saka"})
	require.NoError(t, err)

	stats := newFakePlayerStatsRepo()
	require.NoError(t, stats.ReplaceForMatch(ctx, 1, []playerstats.PlayerMatchStats{
		{MatchID: 1, PlayerID: saka.ID, TeamID: 1, Goals: 1, ShotsOnTarget: 3},
	}))
	require.NoError(t, stats.ReplaceForMatch(ctx, 2, []playerstats.PlayerMatchStats{
		{MatchID: 2, PlayerID: saka.ID, TeamID: 1, Goals: 1, ShotsOnTarget: 1, Assists: 1},
	}))

	appearances := newFakeAppearanceRepo()
	require.NoError(t, appearances.Ensure(ctx, match.Appearance{MatchID: 1, PlayerID: saka.ID, TeamID: 1}))
	require.NoError(t, appearances.Ensure(ctx, match.Appearance{MatchID: 2, PlayerID: saka.ID, TeamID: 1}))

	svc := NewRatingService(players, stats, appearances)

	rating, err := svc.Rating(ctx, saka.ID)
	require.NoError(t, err)

	assert.Equal(t, "Saka", rating.Name)
	assert.Equal(t, 2, rating.Goals)
	assert.Equal(t, 4, rating.ShotsOnTarget)
	assert.Equal(t, 1, rating.Assists)
	assert.Equal(t, 2, rating.Appearances)
	// 5.0 + 0.5*2 + 0.2*4 + 0.1*2
	assert.InDelta(t, 7.0, rating.Rating, 0.0001)
}

func TestRatingUnknownPlayer(t *testing.T) {
	ctx := context.Background()
	svc := NewRatingService(newFakePlayerRepo(), newFakePlayerStatsRepo(), newFakeAppearanceRepo())

	_, err := svc.Rating(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Rating(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}
