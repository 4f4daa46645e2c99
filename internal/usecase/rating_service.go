package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/pitchside/pitchside/internal/domain/match"
	"github.com/pitchside/pitchside/internal/domain/player"
	"github.com/pitchside/pitchside/internal/domain/playerstats"
)

type PlayerRating struct {
	PlayerID      int64   `json:"playerId"`
	Name          string  `json:"name"`
	Goals         int     `json:"goals"`
	ShotsOnTarget int     `json:"shotsOnTarget"`
	Assists       int     `json:"assists"`
	Appearances   int     `json:"appearances"`
	Rating        float64 `json:"rating"`
}

// RatingService derives a heuristic 0..10 player rating from summed
// per-match rows. The formula is a documented heuristic, not a statistically
// fitted score; its clamps and per-term caps are the behavioral contract.
type RatingService struct {
	playerRepo      player.Repository
	playerStatsRepo playerstats.Repository
	appearanceRepo  match.AppearanceRepository
}

func NewRatingService(playerRepo player.Repository, playerStatsRepo playerstats.Repository, appearanceRepo match.AppearanceRepository) *RatingService {
	return &RatingService{
		playerRepo:      playerRepo,
		playerStatsRepo: playerStatsRepo,
		appearanceRepo:  appearanceRepo,
	}
}

func (s *RatingService) Rating(ctx context.Context, playerID int64) (PlayerRating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.Rating")
	defer span.End()

	if playerID <= 0 {
		return PlayerRating{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}

	stored, found, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerRating{}, fmt.Errorf("get player: %w", err)
	}
	if !found {
		return PlayerRating{}, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}

	totals, err := s.playerStatsRepo.SumByPlayer(ctx, playerID)
	if err != nil {
		return PlayerRating{}, fmt.Errorf("sum player stats: %w", err)
	}
	appearances, err := s.appearanceRepo.CountByPlayer(ctx, playerID)
	if err != nil {
		return PlayerRating{}, fmt.Errorf("count appearances: %w", err)
	}

	return PlayerRating{
		PlayerID:      stored.ID,
		Name:          stored.Name,
		Goals:         totals.Goals,
		ShotsOnTarget: totals.ShotsOnTarget,
		Assists:       totals.Assists,
		Appearances:   appearances,
		Rating:        computeRating(totals.Goals, totals.ShotsOnTarget, appearances),
	}, nil
}

func computeRating(goals, shotsOnTarget, appearances int) float64 {
	rating := 5.0 +
		0.5*float64(goals) +
		math.Min(0.2*float64(shotsOnTarget), 2.0) +
		math.Min(0.1*float64(appearances), 2.0)

	return math.Max(0.0, math.Min(rating, 10.0))
}
