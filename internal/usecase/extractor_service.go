package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pitchside/pitchside/internal/domain/league"
	"github.com/pitchside/pitchside/internal/domain/match"
	"github.com/pitchside/pitchside/internal/domain/player"
	"github.com/pitchside/pitchside/internal/domain/playerstats"
	"github.com/pitchside/pitchside/internal/domain/team"
	"github.com/pitchside/pitchside/internal/domain/teamstats"
	"github.com/pitchside/pitchside/internal/platform/logging"
)

// ExtractorService turns one decoded feed event into normalized rows across
// every table. All writes are idempotent, so re-ingesting the same event is
// always safe.
type ExtractorService struct {
	leagueRepo      league.Repository
	teamRepo        team.Repository
	playerRepo      player.Repository
	matchRepo       match.Repository
	appearanceRepo  match.AppearanceRepository
	oddsRepo        match.OddsRepository
	teamStatsRepo   teamstats.Repository
	playerStatsRepo playerstats.Repository
	logger          *logging.Logger
}

func NewExtractorService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	appearanceRepo match.AppearanceRepository,
	oddsRepo match.OddsRepository,
	teamStatsRepo teamstats.Repository,
	playerStatsRepo playerstats.Repository,
	logger *logging.Logger,
) *ExtractorService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ExtractorService{
		leagueRepo:      leagueRepo,
		teamRepo:        teamRepo,
		playerRepo:      playerRepo,
		matchRepo:       matchRepo,
		appearanceRepo:  appearanceRepo,
		oddsRepo:        oddsRepo,
		teamStatsRepo:   teamStatsRepo,
		playerStatsRepo: playerStatsRepo,
		logger:          logger,
	}
}

// ExtractAndStore processes one event. Incomplete events (no competition,
// fewer than two competitors, no usable home/away split) are skipped with
// zero writes; that is expected feed noise, not an error.
func (s *ExtractorService) ExtractAndStore(ctx context.Context, event ExternalEvent) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractorService.ExtractAndStore")
	defer span.End()

	if event.ExternalID == "" {
		s.logger.DebugContext(ctx, "skip event without external id")
		return nil
	}
	if !event.HasCompetition || len(event.Competitors) < 2 {
		s.logger.DebugContext(ctx, "skip incomplete event", "external_event_id", event.ExternalID)
		return nil
	}

	home, away, ok := resolveSides(event.Competitors)
	if !ok {
		s.logger.DebugContext(ctx, "skip event without home/away split", "external_event_id", event.ExternalID)
		return nil
	}

	leagueID, err := s.resolveLeague(ctx, event.LeagueSlug)
	if err != nil {
		return fmt.Errorf("resolve league: %w", err)
	}

	homeTeam, err := s.resolveTeam(ctx, home.Team)
	if err != nil {
		return fmt.Errorf("resolve home team: %w", err)
	}
	awayTeam, err := s.resolveTeam(ctx, away.Team)
	if err != nil {
		return fmt.Errorf("resolve away team: %w", err)
	}

	stored, err := s.matchRepo.Upsert(ctx, match.Match{
		ExternalEventID: event.ExternalID,
		LeagueID:        leagueID,
		HomeTeamID:      homeTeam.ID,
		AwayTeamID:      awayTeam.ID,
		Date:            event.Date,
		Venue:           event.Venue,
		Status:          deriveStatus(event),
		HomeScore:       home.Score,
		AwayScore:       away.Score,
	})
	if err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}

	acc := newEventAccumulator(stored.ID)
	sides := []eventSide{
		{competitor: home, team: homeTeam, isHome: true},
		{competitor: away, team: awayTeam, isHome: false},
	}

	for i := range sides {
		if err := s.collectAthleteListStats(ctx, acc, &sides[i]); err != nil {
			return fmt.Errorf("collect athlete list stats: %w", err)
		}
	}
	if err := s.collectPlayDetails(ctx, acc, event.Details, sides); err != nil {
		return fmt.Errorf("collect play details: %w", err)
	}

	if event.Moneyline != nil {
		if err := s.oddsRepo.Insert(ctx, match.Odds{
			MatchID:  stored.ID,
			HomeOdds: convertAmericanOdds(event.Moneyline.Home),
			DrawOdds: convertAmericanOdds(event.Moneyline.Draw),
			AwayOdds: convertAmericanOdds(event.Moneyline.Away),
			Provider: event.Moneyline.Provider,
		}); err != nil {
			return fmt.Errorf("insert odds snapshot: %w", err)
		}
	}

	statRows := make([]teamstats.MatchStatistics, 0, len(sides))
	for _, side := range sides {
		row := teamstats.MatchStatistics{MatchID: stored.ID, TeamID: side.team.ID}
		for _, statistic := range side.competitor.Statistics {
			applyTeamStatistic(&row, statistic)
		}
		if tally := acc.teamCards[side.team.ID]; tally != nil {
			row.YellowCards = tally.yellow
			row.RedCards = tally.red
		}
		statRows = append(statRows, row)
	}
	if err := s.teamStatsRepo.ReplaceForMatch(ctx, stored.ID, statRows); err != nil {
		return fmt.Errorf("replace team statistics: %w", err)
	}

	for _, appearance := range acc.sortedAppearances() {
		if err := s.appearanceRepo.Ensure(ctx, appearance); err != nil {
			return fmt.Errorf("ensure appearance: %w", err)
		}
	}

	if err := s.playerStatsRepo.ReplaceForMatch(ctx, stored.ID, acc.sortedPlayerRows()); err != nil {
		return fmt.Errorf("replace player match stats: %w", err)
	}

	return nil
}

type eventSide struct {
	competitor ExternalCompetitor
	team       team.Team
	isHome     bool
}

type cardTally struct {
	yellow int
	red    int
}

// eventAccumulator merges the two per-player stat sources in memory before
// the single delete-then-reinsert write. Keys are internal ids so merged
// entries land on one row per player.
type eventAccumulator struct {
	matchID           int64
	players           map[int64]*playerstats.PlayerMatchStats
	appearances       map[string]match.Appearance
	teamCards         map[int64]*cardTally
	playersByExternal map[string]player.Player
	sideByAthlete     map[string]*eventSide
}

func newEventAccumulator(matchID int64) *eventAccumulator {
	return &eventAccumulator{
		matchID:           matchID,
		players:           make(map[int64]*playerstats.PlayerMatchStats, 32),
		appearances:       make(map[string]match.Appearance, 32),
		teamCards:         make(map[int64]*cardTally, 2),
		playersByExternal: make(map[string]player.Player, 32),
		sideByAthlete:     make(map[string]*eventSide, 32),
	}
}

func (acc *eventAccumulator) statLine(playerID, teamID int64) *playerstats.PlayerMatchStats {
	line, ok := acc.players[playerID]
	if !ok {
		line = &playerstats.PlayerMatchStats{MatchID: acc.matchID, PlayerID: playerID, TeamID: teamID}
		acc.players[playerID] = line
	}
	return line
}

func (acc *eventAccumulator) touch(p player.Player, side *eventSide) {
	key := fmt.Sprintf("%d:%d", p.ID, side.team.ID)
	if _, ok := acc.appearances[key]; !ok {
		acc.appearances[key] = match.Appearance{
			MatchID:  acc.matchID,
			PlayerID: p.ID,
			TeamID:   side.team.ID,
			IsHome:   side.isHome,
		}
	}
	if _, ok := acc.sideByAthlete[p.ExternalID]; !ok {
		acc.sideByAthlete[p.ExternalID] = side
	}
}

func (acc *eventAccumulator) cards(teamID int64) *cardTally {
	tally, ok := acc.teamCards[teamID]
	if !ok {
		tally = &cardTally{}
		acc.teamCards[teamID] = tally
	}
	return tally
}

func (acc *eventAccumulator) sortedAppearances() []match.Appearance {
	keys := make([]string, 0, len(acc.appearances))
	for key := range acc.appearances {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]match.Appearance, 0, len(keys))
	for _, key := range keys {
		out = append(out, acc.appearances[key])
	}
	return out
}

func (acc *eventAccumulator) sortedPlayerRows() []playerstats.PlayerMatchStats {
	out := make([]playerstats.PlayerMatchStats, 0, len(acc.players))
	for _, line := range acc.players {
		out = append(out, *line)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

func (s *ExtractorService) resolveLeague(ctx context.Context, slug string) (*int64, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, nil
	}

	canonical := league.NormalizeName(slug)
	if canonical == "" {
		return nil, nil
	}
	if !league.IsKnownName(slug) {
		s.logger.DebugContext(ctx, "league name not in synonym table, storing long form", "slug", slug, "name", canonical)
	}

	stored, err := s.leagueRepo.Upsert(ctx, league.League{
		ExternalCode: slug,
		Name:         canonical,
		SourceSlug:   slug,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert league slug=%s: %w", slug, err)
	}

	return &stored.ID, nil
}

func (s *ExtractorService) resolveTeam(ctx context.Context, external ExternalTeam) (team.Team, error) {
	name := external.Name
	if name == "" {
		name = external.Abbreviation
	}

	stored, err := s.teamRepo.Upsert(ctx, team.Team{
		ExternalID:   external.ExternalID,
		Name:         name,
		Abbreviation: external.Abbreviation,
		LogoURL:      external.LogoURL,
	})
	if err != nil {
		return team.Team{}, fmt.Errorf("upsert team external_id=%s: %w", external.ExternalID, err)
	}

	return stored, nil
}

func (s *ExtractorService) ensureAthlete(ctx context.Context, acc *eventAccumulator, athlete ExternalAthlete, side *eventSide) (player.Player, error) {
	if athlete.ExternalID == "" {
		return player.Player{}, fmt.Errorf("athlete without external id")
	}

	if cached, ok := acc.playersByExternal[athlete.ExternalID]; ok {
		acc.touch(cached, side)
		return cached, nil
	}

	name := athlete.Name
	if name == "" {
		name = "Unknown " + athlete.ExternalID
	}

	stored, err := s.playerRepo.Upsert(ctx, player.Player{
		ExternalID: athlete.ExternalID,
		Name:       name,
		Position:   athlete.Position,
	})
	if err != nil {
		return player.Player{}, fmt.Errorf("upsert player external_id=%s: %w", athlete.ExternalID, err)
	}

	acc.playersByExternal[athlete.ExternalID] = stored
	acc.touch(stored, side)
	return stored, nil
}

// collectAthleteListStats walks the ranked athlete lists attached to a
// competitor's named statistics. Every listed athlete gets an appearance;
// values feed the classified stat field with a max merge since the same
// player may surface under several overlapping categories.
func (s *ExtractorService) collectAthleteListStats(ctx context.Context, acc *eventAccumulator, side *eventSide) error {
	for _, statistic := range side.competitor.Statistics {
		field, classified := classifyAthleteStat(statistic.Name, statistic.Abbreviation)
		for _, line := range statistic.Athletes {
			stored, err := s.ensureAthlete(ctx, acc, line.Athlete, side)
			if err != nil {
				s.logger.DebugContext(ctx, "skip athlete line", "error", err)
				continue
			}
			if !classified {
				continue
			}
			value := athleteLineValue(line)
			applyMaxStat(acc.statLine(stored.ID, side.team.ID), field, value)
		}
	}

	return nil
}

// collectPlayDetails walks the chronological play-by-play entries. A
// qualifying scoring play credits the first involved athlete a goal and the
// second an assist; own goals and penalties never credit a goal. Card flags
// credit the involved athletes and tally against their team.
func (s *ExtractorService) collectPlayDetails(ctx context.Context, acc *eventAccumulator, details []ExternalPlayDetail, sides []eventSide) error {
	for _, detail := range details {
		side := resolveDetailSide(acc, detail, sides)
		if side == nil {
			continue
		}

		if detail.ScoringPlay && !detail.OwnGoal && !detail.PenaltyKick && len(detail.Athletes) > 0 {
			scorer, err := s.ensureAthlete(ctx, acc, detail.Athletes[0], side)
			if err == nil {
				acc.statLine(scorer.ID, side.team.ID).Goals++
			}
			if len(detail.Athletes) > 1 {
				assister, err := s.ensureAthlete(ctx, acc, detail.Athletes[1], side)
				if err == nil {
					acc.statLine(assister.ID, side.team.ID).Assists++
				}
			}
		}

		if detail.YellowCard || detail.RedCard {
			tally := acc.cards(side.team.ID)
			if detail.YellowCard {
				tally.yellow++
			}
			if detail.RedCard {
				tally.red++
			}
			for _, athlete := range detail.Athletes {
				carded, err := s.ensureAthlete(ctx, acc, athlete, side)
				if err != nil {
					continue
				}
				line := acc.statLine(carded.ID, side.team.ID)
				if detail.YellowCard {
					line.YellowCards++
				}
				if detail.RedCard {
					line.RedCards++
				}
			}
		}
	}

	return nil
}

// resolveDetailSide attributes a detail to a side via its own team
// reference, then via the first involved athlete's already-known team, then
// falls back to the home side so a card is never dropped outright.
func resolveDetailSide(acc *eventAccumulator, detail ExternalPlayDetail, sides []eventSide) *eventSide {
	if detail.TeamExternalID != "" {
		for i := range sides {
			if sides[i].team.ExternalID == detail.TeamExternalID {
				return &sides[i]
			}
		}
	}
	if len(detail.Athletes) > 0 {
		if side, ok := acc.sideByAthlete[detail.Athletes[0].ExternalID]; ok {
			return side
		}
	}
	for i := range sides {
		if sides[i].isHome {
			return &sides[i]
		}
	}
	return nil
}

func resolveSides(competitors []ExternalCompetitor) (ExternalCompetitor, ExternalCompetitor, bool) {
	var home, away *ExternalCompetitor
	for i := range competitors {
		switch competitors[i].HomeAway {
		case "home":
			if home == nil {
				home = &competitors[i]
			}
		case "away":
			if away == nil {
				away = &competitors[i]
			}
		}
	}
	if home == nil || away == nil {
		return ExternalCompetitor{}, ExternalCompetitor{}, false
	}
	if home.Team.ExternalID == "" || away.Team.ExternalID == "" || home.Team.ExternalID == away.Team.ExternalID {
		return ExternalCompetitor{}, ExternalCompetitor{}, false
	}
	return *home, *away, true
}

func deriveStatus(event ExternalEvent) string {
	if event.StatusCompleted {
		return match.StatusCompleted
	}
	return match.NormalizeStatus(event.StatusState)
}

// applyTeamStatistic maps the named team-level stat entries the feed is
// known to send. Unrecognized names are ignored.
func applyTeamStatistic(row *teamstats.MatchStatistics, statistic ExternalTeamStatistic) {
	value, ok := teamStatValue(statistic)
	if !ok {
		return
	}

	switch statistic.Name {
	case "possessionPct":
		row.Possession = value
	case "totalShots":
		row.Shots = int(math.Round(value))
	case "shotsOnTarget":
		row.ShotsOnTarget = int(math.Round(value))
	case "wonCorners":
		row.Corners = int(math.Round(value))
	case "foulsCommitted":
		row.Fouls = int(math.Round(value))
	}
}

func teamStatValue(statistic ExternalTeamStatistic) (float64, bool) {
	if statistic.Value != nil {
		return *statistic.Value, true
	}
	return parseStatNumber(statistic.DisplayValue)
}

type athleteStatField int

const (
	fieldShotsOnTarget athleteStatField = iota
	fieldAssists
	fieldPassesCompleted
	fieldPasses
	fieldTackles
	fieldInterceptions
	fieldSaves
)

type athleteStatPattern struct {
	field   athleteStatField
	nameAll []string
	abbrAny []string
}

// athleteStatPatterns classifies which metric a ranked athlete list
// represents. Matching is substring-based and best-effort; the feed's
// naming drifts, so extend the table rather than the control flow.
// Order matters: passes-completed must match before plain passes.
var athleteStatPatterns = []athleteStatPattern{
	{field: fieldShotsOnTarget, nameAll: []string{"shot", "target"}, abbrAny: []string{"sot"}},
	{field: fieldAssists, nameAll: []string{"assist"}, abbrAny: []string{"ast"}},
	{field: fieldPassesCompleted, nameAll: []string{"pass", "complet"}, abbrAny: []string{"apc"}},
	{field: fieldPasses, nameAll: []string{"pass"}, abbrAny: []string{"ap"}},
	{field: fieldTackles, nameAll: []string{"tackle"}, abbrAny: []string{"tkl"}},
	{field: fieldInterceptions, nameAll: []string{"intercept"}, abbrAny: []string{"int"}},
	{field: fieldSaves, nameAll: []string{"save"}, abbrAny: []string{"sv", "sav"}},
}

func classifyAthleteStat(name, abbreviation string) (athleteStatField, bool) {
	loweredName := strings.ToLower(name)
	loweredAbbr := strings.ToLower(abbreviation)

	for _, pattern := range athleteStatPatterns {
		if containsAll(loweredName, pattern.nameAll) {
			return pattern.field, true
		}
		for _, abbr := range pattern.abbrAny {
			if loweredAbbr == abbr {
				return pattern.field, true
			}
		}
	}
	return 0, false
}

func containsAll(value string, parts []string) bool {
	if value == "" || len(parts) == 0 {
		return false
	}
	for _, part := range parts {
		if !strings.Contains(value, part) {
			return false
		}
	}
	return true
}

// athleteLineValue reads whichever value field the feed populated. Presence
// in a ranked list with no explicit value still means at least one
// occurrence, hence the sentinel 1.
func athleteLineValue(line ExternalAthleteLine) int {
	if line.Value != nil {
		return int(math.Round(*line.Value))
	}
	if value, ok := parseStatNumber(line.Stat); ok {
		return int(math.Round(value))
	}
	if value, ok := parseStatNumber(line.DisplayValue); ok {
		return int(math.Round(value))
	}
	return 1
}

func parseStatNumber(raw string) (float64, bool) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "%")
	if trimmed == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// applyMaxStat merges with max, not sum: the ranked lists repeat players
// across categories and are authoritative, not additive.
func applyMaxStat(line *playerstats.PlayerMatchStats, field athleteStatField, value int) {
	switch field {
	case fieldShotsOnTarget:
		if value > line.ShotsOnTarget {
			line.ShotsOnTarget = value
		}
	case fieldAssists:
		if value > line.Assists {
			line.Assists = value
		}
	case fieldPassesCompleted:
		if value > line.PassesCompleted {
			line.PassesCompleted = value
		}
	case fieldPasses:
		if value > line.Passes {
			line.Passes = value
		}
	case fieldTackles:
		if value > line.Tackles {
			line.Tackles = value
		}
	case fieldInterceptions:
		if value > line.Interceptions {
			line.Interceptions = value
		}
	case fieldSaves:
		if value > line.Saves {
			line.Saves = value
		}
	}
}

// convertAmericanOdds turns an American odds string into decimal odds.
// Unparseable input becomes nil, never zero and never an error, so one bad
// field cannot block the rest of the event.
func convertAmericanOdds(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "+")
	if trimmed == "" {
		return nil
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || value == 0 {
		return nil
	}

	var decimal float64
	if value > 0 {
		decimal = 1 + value/100
	} else {
		decimal = 1 + 100/math.Abs(value)
	}
	return &decimal
}
