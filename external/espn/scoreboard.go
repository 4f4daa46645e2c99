package espn

// Wire types for the site API soccer scoreboard document. Every nested
// section may be absent; pointers and empty slices keep decoding tolerant so
// mapping code decides what is usable.

type scoreboardEnvelope struct {
	Leagues []leaguePayload `json:"leagues"`
	Events  []eventPayload  `json:"events"`
}

type leaguePayload struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type eventPayload struct {
	ID           string               `json:"id"`
	Date         string               `json:"date"`
	Name         string               `json:"name"`
	Season       *seasonPayload       `json:"season"`
	Competitions []competitionPayload `json:"competitions"`
	Status       *statusPayload       `json:"status"`
}

type seasonPayload struct {
	Slug string `json:"slug"`
	Year int    `json:"year"`
}

type competitionPayload struct {
	ID          string              `json:"id"`
	Date        string              `json:"date"`
	Venue       *venuePayload       `json:"venue"`
	Competitors []competitorPayload `json:"competitors"`
	Details     []detailPayload     `json:"details"`
	Odds        []oddsPayload       `json:"odds"`
	Status      *statusPayload      `json:"status"`
}

type venuePayload struct {
	FullName string `json:"fullName"`
}

type statusPayload struct {
	Type *statusTypePayload `json:"type"`
}

type statusTypePayload struct {
	State     string `json:"state"`
	Completed bool   `json:"completed"`
	Name      string `json:"name"`
}

type competitorPayload struct {
	ID         string             `json:"id"`
	HomeAway   string             `json:"homeAway"`
	Score      string             `json:"score"`
	Team       *teamPayload       `json:"team"`
	Statistics []statisticPayload `json:"statistics"`
}

type teamPayload struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Logo         string `json:"logo"`
}

type statisticPayload struct {
	Name         string               `json:"name"`
	Abbreviation string               `json:"abbreviation"`
	DisplayValue string               `json:"displayValue"`
	Value        *float64             `json:"value"`
	Athletes     []athleteLinePayload `json:"athletes"`
}

type athleteLinePayload struct {
	Athlete      *athletePayload `json:"athlete"`
	Value        *float64        `json:"value"`
	Stat         string          `json:"stat"`
	DisplayValue string          `json:"displayValue"`
}

type athletePayload struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"displayName"`
	FullName    string           `json:"fullName"`
	Position    *positionPayload `json:"position"`
}

type positionPayload struct {
	Abbreviation string `json:"abbreviation"`
}

type detailPayload struct {
	Type             *detailTypePayload `json:"type"`
	ScoringPlay      bool               `json:"scoringPlay"`
	OwnGoal          bool               `json:"ownGoal"`
	PenaltyKick      bool               `json:"penaltyKick"`
	YellowCard       bool               `json:"yellowCard"`
	RedCard          bool               `json:"redCard"`
	Team             *teamRefPayload    `json:"team"`
	AthletesInvolved []athletePayload   `json:"athletesInvolved"`
}

type detailTypePayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type teamRefPayload struct {
	ID string `json:"id"`
}

type oddsPayload struct {
	Provider  *oddsProviderPayload `json:"provider"`
	Moneyline *moneylinePayload    `json:"moneyline"`
}

type oddsProviderPayload struct {
	Name string `json:"name"`
}

type moneylinePayload struct {
	Home string `json:"home"`
	Draw string `json:"draw"`
	Away string `json:"away"`
}
