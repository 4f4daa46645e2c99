package espn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/pitchside/pitchside/internal/platform/logging"
	"github.com/pitchside/pitchside/internal/platform/resilience"
	"github.com/pitchside/pitchside/internal/usecase"
)

const (
	defaultBaseURL     = "https://site.api.espn.com/apis/site/v2/sports/soccer/all"
	scoreboardPath     = "/scoreboard"
	scoreboardDateFmt  = "20060102"
	maxResponseBytes   = 6 << 20
	baseRetryBackoff   = 500 * time.Millisecond
	maxRetryBackoff    = 8 * time.Second
	defaultOddsVendor  = "unknown"
	defaultHTTPTimeout = 20 * time.Second
)

var errScoreboardTransient = crerr.New("scoreboard transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultHTTPTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchScoreboard returns every event the feed reports for one calendar day.
// The caller issues one request per day; the range form of the dates
// parameter silently drops events from some leagues and must not be used.
func (c *Client) FetchScoreboard(ctx context.Context, day time.Time) ([]usecase.ExternalEvent, error) {
	query := map[string]string{
		"dates": day.Format(scoreboardDateFmt),
	}

	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, scoreboardPath, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scoreboard day=%s: %w", day.Format(scoreboardDateFmt), err)
	}

	fallbackSlug := ""
	if len(envelope.Leagues) > 0 {
		fallbackSlug = strings.TrimSpace(envelope.Leagues[0].Slug)
	}

	events := make([]usecase.ExternalEvent, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		events = append(events, mapEvent(item, fallbackSlug))
	}

	return events, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "scoreboard circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: score feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isScoreboardCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode scoreboard payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errScoreboardTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errScoreboardTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errScoreboardTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(retryBackoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "scoreboard request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// retryBackoff doubles per attempt and is capped so exhausting retries on a
// rate-limited day stays bounded.
func retryBackoff(attempt int) time.Duration {
	backoff := baseRetryBackoff << uint(attempt)
	if backoff > maxRetryBackoff || backoff <= 0 {
		backoff = maxRetryBackoff
	}
	return backoff
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func isScoreboardCircuitFailure(err error) bool {
	return stderrors.Is(err, errScoreboardTransient)
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return body
}

func mapEvent(item eventPayload, fallbackSlug string) usecase.ExternalEvent {
	event := usecase.ExternalEvent{
		ExternalID: strings.TrimSpace(item.ID),
		Name:       strings.TrimSpace(item.Name),
	}

	if item.Season != nil {
		event.LeagueSlug = strings.TrimSpace(item.Season.Slug)
	}
	if event.LeagueSlug == "" {
		event.LeagueSlug = fallbackSlug
	}

	if parsed := parseFeedDateTime(item.Date); parsed != nil {
		event.Date = *parsed
	}

	status := item.Status
	if len(item.Competitions) > 0 {
		competition := item.Competitions[0]
		event.HasCompetition = true
		if competition.Status != nil {
			status = competition.Status
		}
		if competition.Venue != nil {
			event.Venue = strings.TrimSpace(competition.Venue.FullName)
		}
		if parsed := parseFeedDateTime(competition.Date); parsed != nil {
			event.Date = *parsed
		}
		for _, competitor := range competition.Competitors {
			event.Competitors = append(event.Competitors, mapCompetitor(competitor))
		}
		for _, detail := range competition.Details {
			event.Details = append(event.Details, mapDetail(detail))
		}
		event.Moneyline = mapMoneyline(competition.Odds)
	}

	if status != nil && status.Type != nil {
		event.StatusCompleted = status.Type.Completed
		event.StatusState = strings.ToLower(strings.TrimSpace(status.Type.State))
	}

	return event
}

func mapCompetitor(item competitorPayload) usecase.ExternalCompetitor {
	competitor := usecase.ExternalCompetitor{
		HomeAway: strings.ToLower(strings.TrimSpace(item.HomeAway)),
		Score:    parseIntDefault(item.Score, 0),
	}

	if item.Team != nil {
		competitor.Team = usecase.ExternalTeam{
			ExternalID:   strings.TrimSpace(item.Team.ID),
			Name:         firstNonEmpty(item.Team.DisplayName, item.Team.Name),
			Abbreviation: strings.TrimSpace(item.Team.Abbreviation),
			LogoURL:      strings.TrimSpace(item.Team.Logo),
		}
	}
	if competitor.Team.ExternalID == "" {
		competitor.Team.ExternalID = strings.TrimSpace(item.ID)
	}

	for _, statistic := range item.Statistics {
		mapped := usecase.ExternalTeamStatistic{
			Name:         strings.TrimSpace(statistic.Name),
			Abbreviation: strings.TrimSpace(statistic.Abbreviation),
			DisplayValue: strings.TrimSpace(statistic.DisplayValue),
			Value:        statistic.Value,
		}
		for _, line := range statistic.Athletes {
			if line.Athlete == nil {
				continue
			}
			mapped.Athletes = append(mapped.Athletes, usecase.ExternalAthleteLine{
				Athlete:      mapAthlete(*line.Athlete),
				Value:        line.Value,
				Stat:         strings.TrimSpace(line.Stat),
				DisplayValue: strings.TrimSpace(line.DisplayValue),
			})
		}
		competitor.Statistics = append(competitor.Statistics, mapped)
	}

	return competitor
}

func mapAthlete(item athletePayload) usecase.ExternalAthlete {
	athlete := usecase.ExternalAthlete{
		ExternalID: strings.TrimSpace(item.ID),
		Name:       firstNonEmpty(item.DisplayName, item.FullName),
	}
	if item.Position != nil {
		athlete.Position = strings.TrimSpace(item.Position.Abbreviation)
	}
	return athlete
}

func mapDetail(item detailPayload) usecase.ExternalPlayDetail {
	detail := usecase.ExternalPlayDetail{
		ScoringPlay: item.ScoringPlay,
		OwnGoal:     item.OwnGoal,
		PenaltyKick: item.PenaltyKick,
		YellowCard:  item.YellowCard,
		RedCard:     item.RedCard,
	}
	if item.Team != nil {
		detail.TeamExternalID = strings.TrimSpace(item.Team.ID)
	}
	for _, athlete := range item.AthletesInvolved {
		detail.Athletes = append(detail.Athletes, mapAthlete(athlete))
	}
	return detail
}

func mapMoneyline(odds []oddsPayload) *usecase.ExternalMoneyline {
	for _, item := range odds {
		if item.Moneyline == nil {
			continue
		}
		provider := defaultOddsVendor
		if item.Provider != nil && strings.TrimSpace(item.Provider.Name) != "" {
			provider = strings.TrimSpace(item.Provider.Name)
		}
		return &usecase.ExternalMoneyline{
			Provider: provider,
			Home:     strings.TrimSpace(item.Moneyline.Home),
			Draw:     strings.TrimSpace(item.Moneyline.Draw),
			Away:     strings.TrimSpace(item.Moneyline.Away),
		}
	}
	return nil
}

var feedDateTimeLayouts = []string{
	"2006-01-02T15:04Z",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
}

func parseFeedDateTime(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	for _, layout := range feedDateTimeLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

func parseIntDefault(raw string, fallback int) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
