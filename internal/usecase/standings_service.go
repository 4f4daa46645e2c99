package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/pitchside/pitchside/internal/domain/match"
	"github.com/pitchside/pitchside/internal/domain/team"
	"github.com/pitchside/pitchside/internal/platform/cache"
)

const standingsCacheKey = "standings:all"

type TeamStanding struct {
	TeamID         int64  `json:"teamId"`
	TeamName       string `json:"teamName"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

// StandingsService computes the league table from completed matches. Wins
// are worth three points, draws one. Read-only and safe for concurrent use.
type StandingsService struct {
	matchRepo match.Repository
	teamRepo  team.Repository
	cache     *cache.Store
}

func NewStandingsService(matchRepo match.Repository, teamRepo team.Repository, cacheStore *cache.Store) *StandingsService {
	return &StandingsService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		cache:     cacheStore,
	}
}

func (s *StandingsService) Standings(ctx context.Context) ([]TeamStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Standings")
	defer span.End()

	if s.cache == nil {
		return s.computeStandings(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, standingsCacheKey, func(ctx context.Context) (any, error) {
		return s.computeStandings(ctx)
	})
	if err != nil {
		return nil, err
	}

	standings, ok := value.([]TeamStanding)
	if !ok {
		return nil, fmt.Errorf("unexpected cached standings type %T", value)
	}
	return standings, nil
}

func (s *StandingsService) computeStandings(ctx context.Context) ([]TeamStanding, error) {
	matches, err := s.matchRepo.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list completed matches: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	nameByID := make(map[int64]string, len(teams))
	for _, t := range teams {
		nameByID[t.ID] = t.Name
	}

	byTeam := make(map[int64]*TeamStanding, len(teams))
	row := func(teamID int64) *TeamStanding {
		standing, ok := byTeam[teamID]
		if !ok {
			standing = &TeamStanding{TeamID: teamID, TeamName: nameByID[teamID]}
			byTeam[teamID] = standing
		}
		return standing
	}

	for _, m := range matches {
		home := row(m.HomeTeamID)
		away := row(m.AwayTeamID)

		home.Played++
		away.Played++
		home.GoalsFor += m.HomeScore
		home.GoalsAgainst += m.AwayScore
		away.GoalsFor += m.AwayScore
		away.GoalsAgainst += m.HomeScore

		switch {
		case m.HomeScore > m.AwayScore:
			home.Wins++
			away.Losses++
		case m.HomeScore < m.AwayScore:
			away.Wins++
			home.Losses++
		default:
			home.Draws++
			away.Draws++
		}
	}

	out := make([]TeamStanding, 0, len(byTeam))
	for _, standing := range byTeam {
		standing.GoalDifference = standing.GoalsFor - standing.GoalsAgainst
		standing.Points = standing.Wins*3 + standing.Draws
		out = append(out, *standing)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].GoalDifference != out[j].GoalDifference {
			return out[i].GoalDifference > out[j].GoalDifference
		}
		if out[i].GoalsFor != out[j].GoalsFor {
			return out[i].GoalsFor > out[j].GoalsFor
		}
		return out[i].TeamName < out[j].TeamName
	})

	return out, nil
}
