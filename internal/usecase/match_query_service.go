package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchside/pitchside/internal/domain/match"
	"github.com/pitchside/pitchside/internal/domain/playerstats"
	"github.com/pitchside/pitchside/internal/domain/team"
	"github.com/pitchside/pitchside/internal/domain/teamstats"
)

type MatchSummary struct {
	ID              int64       `json:"id"`
	ExternalEventID string      `json:"externalEventId"`
	HomeTeamID      int64       `json:"homeTeamId"`
	HomeTeam        string      `json:"homeTeam"`
	AwayTeamID      int64       `json:"awayTeamId"`
	AwayTeam        string      `json:"awayTeam"`
	Date            time.Time   `json:"date"`
	Venue           string      `json:"venue,omitempty"`
	Status          string      `json:"status"`
	HomeScore       int         `json:"homeScore"`
	AwayScore       int         `json:"awayScore"`
	LatestOdds      *match.Odds `json:"latestOdds,omitempty"`
}

// MatchDetail is one match with every stored drill-down table attached.
type MatchDetail struct {
	MatchSummary
	TeamStatistics   []teamstats.MatchStatistics   `json:"teamStatistics"`
	PlayerStatistics []playerstats.PlayerMatchStats `json:"playerStatistics"`
	OddsHistory      []match.Odds                   `json:"oddsHistory"`
}

// MatchQueryService lists matches for the dashboard schedule view.
type MatchQueryService struct {
	matchRepo       match.Repository
	teamRepo        team.Repository
	oddsRepo        match.OddsRepository
	teamStatsRepo   teamstats.Repository
	playerStatsRepo playerstats.Repository
}

func NewMatchQueryService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	oddsRepo match.OddsRepository,
	teamStatsRepo teamstats.Repository,
	playerStatsRepo playerstats.Repository,
) *MatchQueryService {
	return &MatchQueryService{
		matchRepo:       matchRepo,
		teamRepo:        teamRepo,
		oddsRepo:        oddsRepo,
		teamStatsRepo:   teamStatsRepo,
		playerStatsRepo: playerStatsRepo,
	}
}

// ListBetween returns matches in the window with team names and the latest
// odds snapshot attached. Zero bounds default to a week either side of now.
func (s *MatchQueryService) ListBetween(ctx context.Context, from, to time.Time) ([]MatchSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.ListBetween")
	defer span.End()

	now := time.Now().UTC()
	if from.IsZero() {
		from = now.AddDate(0, 0, -7)
	}
	if to.IsZero() {
		to = now.AddDate(0, 0, 7)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list matches between: %w", err)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	nameByID := make(map[int64]string, len(teams))
	for _, t := range teams {
		nameByID[t.ID] = t.Name
	}

	out := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		summary := MatchSummary{
			ID:              m.ID,
			ExternalEventID: m.ExternalEventID,
			HomeTeamID:      m.HomeTeamID,
			HomeTeam:        nameByID[m.HomeTeamID],
			AwayTeamID:      m.AwayTeamID,
			AwayTeam:        nameByID[m.AwayTeamID],
			Date:            m.Date,
			Venue:           m.Venue,
			Status:          m.Status,
			HomeScore:       m.HomeScore,
			AwayScore:       m.AwayScore,
		}

		snapshots, err := s.oddsRepo.ListByMatch(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("list odds by match: %w", err)
		}
		if len(snapshots) > 0 {
			latest := snapshots[len(snapshots)-1]
			summary.LatestOdds = &latest
		}

		out = append(out, summary)
	}

	return out, nil
}

// GetDetail returns one match with its stat tables and full odds history.
func (s *MatchQueryService) GetDetail(ctx context.Context, matchID int64) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.GetDetail")
	defer span.End()

	if matchID <= 0 {
		return MatchDetail{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return MatchDetail{}, fmt.Errorf("%w: match %d", ErrNotFound, matchID)
	}

	detail := MatchDetail{
		MatchSummary: MatchSummary{
			ID:              m.ID,
			ExternalEventID: m.ExternalEventID,
			HomeTeamID:      m.HomeTeamID,
			AwayTeamID:      m.AwayTeamID,
			Date:            m.Date,
			Venue:           m.Venue,
			Status:          m.Status,
			HomeScore:       m.HomeScore,
			AwayScore:       m.AwayScore,
		},
	}

	if home, found, err := s.teamRepo.GetByID(ctx, m.HomeTeamID); err != nil {
		return MatchDetail{}, fmt.Errorf("get home team: %w", err)
	} else if found {
		detail.HomeTeam = home.Name
	}
	if away, found, err := s.teamRepo.GetByID(ctx, m.AwayTeamID); err != nil {
		return MatchDetail{}, fmt.Errorf("get away team: %w", err)
	} else if found {
		detail.AwayTeam = away.Name
	}

	if detail.TeamStatistics, err = s.teamStatsRepo.ListByMatch(ctx, m.ID); err != nil {
		return MatchDetail{}, fmt.Errorf("list team statistics: %w", err)
	}
	if detail.PlayerStatistics, err = s.playerStatsRepo.ListByMatch(ctx, m.ID); err != nil {
		return MatchDetail{}, fmt.Errorf("list player statistics: %w", err)
	}
	if detail.OddsHistory, err = s.oddsRepo.ListByMatch(ctx, m.ID); err != nil {
		return MatchDetail{}, fmt.Errorf("list odds history: %w", err)
	}
	if len(detail.OddsHistory) > 0 {
		latest := detail.OddsHistory[len(detail.OddsHistory)-1]
		detail.LatestOdds = &latest
	}

	return detail, nil
}
