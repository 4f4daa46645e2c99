package usecase

import "time"

// External* types are the strongly-typed form of one scoreboard event after
// the feed client has decoded the wire payload. Mapping happens at the
// ingestion boundary so business logic never touches weakly-typed JSON.

type ExternalEvent struct {
	ExternalID      string
	Name            string
	LeagueSlug      string
	Date            time.Time
	Venue           string
	StatusCompleted bool
	StatusState     string
	HasCompetition  bool
	Competitors     []ExternalCompetitor
	Details         []ExternalPlayDetail
	Moneyline       *ExternalMoneyline
}

type ExternalCompetitor struct {
	HomeAway   string
	Score      int
	Team       ExternalTeam
	Statistics []ExternalTeamStatistic
}

type ExternalTeam struct {
	ExternalID   string
	Name         string
	Abbreviation string
	LogoURL      string
}

// ExternalTeamStatistic is one named stat entry for a competitor. The
// optional ranked athlete list doubles as a per-player stat source.
type ExternalTeamStatistic struct {
	Name         string
	Abbreviation string
	DisplayValue string
	Value        *float64
	Athletes     []ExternalAthleteLine
}

type ExternalAthleteLine struct {
	Athlete      ExternalAthlete
	Value        *float64
	Stat         string
	DisplayValue string
}

type ExternalAthlete struct {
	ExternalID string
	Name       string
	Position   string
}

// ExternalPlayDetail is one chronological play-by-play entry.
type ExternalPlayDetail struct {
	ScoringPlay    bool
	OwnGoal        bool
	PenaltyKick    bool
	YellowCard     bool
	RedCard        bool
	TeamExternalID string
	Athletes       []ExternalAthlete
}

// ExternalMoneyline carries American-format odds strings as the feed sent
// them; conversion to decimal odds happens in the extractor.
type ExternalMoneyline struct {
	Provider string
	Home     string
	Draw     string
	Away     string
}
