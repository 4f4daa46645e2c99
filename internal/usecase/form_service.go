package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchside/pitchside/internal/domain/match"
	"github.com/pitchside/pitchside/internal/domain/team"
	"github.com/pitchside/pitchside/internal/domain/teamstats"
)

const headToHeadDetailLimit = 5

type FormEntry struct {
	MatchID      int64                      `json:"matchId"`
	Date         time.Time                  `json:"date"`
	OpponentID   int64                      `json:"opponentId"`
	Opponent     string                     `json:"opponent"`
	Home         bool                       `json:"home"`
	GoalsFor     int                        `json:"goalsFor"`
	GoalsAgainst int                        `json:"goalsAgainst"`
	Result       string                     `json:"result"`
	Statistics   *teamstats.MatchStatistics `json:"statistics,omitempty"`
}

type HeadToHeadSummary struct {
	TeamAID      int64       `json:"teamAId"`
	TeamBID      int64       `json:"teamBId"`
	TeamAWins    int         `json:"teamAWins"`
	TeamBWins    int         `json:"teamBWins"`
	Draws        int         `json:"draws"`
	LastMeetings []FormEntry `json:"lastMeetings"`
}

// FormService answers recent-form and head-to-head queries from completed
// matches, with the per-match team stat line attached for drill-down.
type FormService struct {
	matchRepo     match.Repository
	teamRepo      team.Repository
	teamStatsRepo teamstats.Repository
}

func NewFormService(matchRepo match.Repository, teamRepo team.Repository, teamStatsRepo teamstats.Repository) *FormService {
	return &FormService{
		matchRepo:     matchRepo,
		teamRepo:      teamRepo,
		teamStatsRepo: teamStatsRepo,
	}
}

func (s *FormService) RecentForm(ctx context.Context, teamID int64, limit int) ([]FormEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.RecentForm")
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}
	if _, found, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: team %d", ErrNotFound, teamID)
	}

	matches, err := s.matchRepo.ListCompletedByTeam(ctx, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("list completed matches by team: %w", err)
	}

	return s.buildEntries(ctx, teamID, matches, true)
}

func (s *FormService) HeadToHead(ctx context.Context, teamAID, teamBID int64) (HeadToHeadSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.HeadToHead")
	defer span.End()

	if teamAID <= 0 || teamBID <= 0 || teamAID == teamBID {
		return HeadToHeadSummary{}, fmt.Errorf("%w: two distinct team ids are required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListBetweenTeams(ctx, teamAID, teamBID)
	if err != nil {
		return HeadToHeadSummary{}, fmt.Errorf("list matches between teams: %w", err)
	}

	summary := HeadToHeadSummary{TeamAID: teamAID, TeamBID: teamBID}
	for _, m := range matches {
		winner := int64(0)
		if m.HomeScore > m.AwayScore {
			winner = m.HomeTeamID
		} else if m.AwayScore > m.HomeScore {
			winner = m.AwayTeamID
		}
		switch winner {
		case teamAID:
			summary.TeamAWins++
		case teamBID:
			summary.TeamBWins++
		default:
			summary.Draws++
		}
	}

	detail := matches
	if len(detail) > headToHeadDetailLimit {
		detail = detail[:headToHeadDetailLimit]
	}
	entries, err := s.buildEntries(ctx, teamAID, detail, false)
	if err != nil {
		return HeadToHeadSummary{}, err
	}
	summary.LastMeetings = entries

	return summary, nil
}

func (s *FormService) buildEntries(ctx context.Context, teamID int64, matches []match.Match, withStats bool) ([]FormEntry, error) {
	entries := make([]FormEntry, 0, len(matches))
	opponentNames := make(map[int64]string, len(matches))

	for _, m := range matches {
		entry := FormEntry{
			MatchID: m.ID,
			Date:    m.Date,
			Home:    m.HomeTeamID == teamID,
		}
		if entry.Home {
			entry.OpponentID = m.AwayTeamID
			entry.GoalsFor = m.HomeScore
			entry.GoalsAgainst = m.AwayScore
		} else {
			entry.OpponentID = m.HomeTeamID
			entry.GoalsFor = m.AwayScore
			entry.GoalsAgainst = m.HomeScore
		}

		switch {
		case entry.GoalsFor > entry.GoalsAgainst:
			entry.Result = "W"
		case entry.GoalsFor < entry.GoalsAgainst:
			entry.Result = "L"
		default:
			entry.Result = "D"
		}

		name, ok := opponentNames[entry.OpponentID]
		if !ok {
			opponent, found, err := s.teamRepo.GetByID(ctx, entry.OpponentID)
			if err != nil {
				return nil, fmt.Errorf("get opponent team: %w", err)
			}
			if found {
				name = opponent.Name
			}
			opponentNames[entry.OpponentID] = name
		}
		entry.Opponent = name

		if withStats {
			rows, err := s.teamStatsRepo.ListByMatch(ctx, m.ID)
			if err != nil {
				return nil, fmt.Errorf("list match statistics: %w", err)
			}
			for i := range rows {
				if rows[i].TeamID == teamID {
					entry.Statistics = &rows[i]
					break
				}
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
