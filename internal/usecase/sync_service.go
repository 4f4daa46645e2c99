package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchside/pitchside/internal/domain/ingestrun"
	"github.com/pitchside/pitchside/internal/domain/match"
	"github.com/pitchside/pitchside/internal/platform/logging"
)

// FeedClient fetches one calendar day of scoreboard events. One request per
// day is a correctness requirement: the feed's range mode silently drops
// events from some leagues.
type FeedClient interface {
	FetchScoreboard(ctx context.Context, day time.Time) ([]ExternalEvent, error)
}

// EventExtractor stores one decoded event.
type EventExtractor interface {
	ExtractAndStore(ctx context.Context, event ExternalEvent) error
}

type SyncConfig struct {
	BackfillMaxDays int
	ForwardDays     int
	RequestDelay    time.Duration
}

func (c SyncConfig) normalized() SyncConfig {
	if c.BackfillMaxDays <= 0 {
		c.BackfillMaxDays = 90
	}
	if c.ForwardDays <= 0 {
		c.ForwardDays = 8
	}
	if c.RequestDelay <= 0 {
		c.RequestDelay = 1500 * time.Millisecond
	}
	return c
}

// SyncService decides which calendar days to request and drives the
// extractor over every returned event. It never lets an ingestion failure
// prevent the host process from serving already-stored data.
type SyncService struct {
	feed      FeedClient
	extractor EventExtractor
	matchRepo match.Repository
	runRepo   ingestrun.Repository
	cfg       SyncConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewSyncService(
	feed FeedClient,
	extractor EventExtractor,
	matchRepo match.Repository,
	runRepo ingestrun.Repository,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		feed:      feed,
		extractor: extractor,
		matchRepo: matchRepo,
		runRepo:   runRepo,
		cfg:       cfg.normalized(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RunStartupSync backfills past days up to today, then fetches the upcoming
// fixture window. Blocking; call once at process start. Errors are logged
// and swallowed so the HTTP surface still comes up on a bad feed day.
func (s *SyncService) RunStartupSync(ctx context.Context) {
	today := dateOnly(s.now())

	days, err := s.planBackfill(ctx, today)
	if err != nil {
		s.logger.ErrorContext(ctx, "plan backfill failed, skipping backfill", "error", err)
		days = nil
	}
	if len(days) > 0 {
		s.logger.InfoContext(ctx, "starting backfill",
			"days", len(days),
			"from", days[0].Format("2006-01-02"),
			"to", days[len(days)-1].Format("2006-01-02"),
		)
	}
	for i, day := range days {
		if i > 0 && !s.pause(ctx) {
			return
		}
		s.ingestDay(ctx, ingestrun.TypeBackfill, day)
	}

	// Upcoming fixtures are idempotent by external event id, so the forward
	// window always re-runs in full.
	for i := 0; i < s.cfg.ForwardDays; i++ {
		if (i > 0 || len(days) > 0) && !s.pause(ctx) {
			return
		}
		s.ingestDay(ctx, ingestrun.TypeForward, today.AddDate(0, 0, i))
	}
}

func (s *SyncService) planBackfill(ctx context.Context, today time.Time) ([]time.Time, error) {
	latest, hasLatest, err := s.matchRepo.LatestMatchDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest match date: %w", err)
	}
	return planBackfillDays(latest, hasLatest, today, s.cfg.BackfillMaxDays), nil
}

// planBackfillDays enumerates the day after the high-water mark through
// today inclusive. An empty store starts maxDays back. When the gap exceeds
// maxDays the oldest days are dropped so today is always covered.
func planBackfillDays(latest time.Time, hasLatest bool, today time.Time, maxDays int) []time.Time {
	today = dateOnly(today)

	var start time.Time
	if hasLatest {
		start = dateOnly(latest).AddDate(0, 0, 1)
	} else {
		start = today.AddDate(0, 0, -maxDays)
	}
	if start.After(today) {
		return nil
	}

	days := make([]time.Time, 0, maxDays)
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	if len(days) > maxDays {
		days = days[len(days)-maxDays:]
	}
	return days
}

// ingestDay fetches and extracts one day. A failed fetch abandons only this
// day; a failed event extraction abandons only that event.
func (s *SyncService) ingestDay(ctx context.Context, runType ingestrun.RunType, day time.Time) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.ingestDay")
	defer span.End()

	startedAt := s.now()
	run := ingestrun.Run{
		RunType:   runType,
		Day:       day,
		StartedAt: startedAt,
	}

	events, err := s.feed.FetchScoreboard(ctx, day)
	if err != nil {
		s.logger.WarnContext(ctx, "day fetch abandoned",
			"day", day.Format("2006-01-02"),
			"run_type", string(runType),
			"error", err,
		)
		run.Status = ingestrun.StatusFailed
		run.ErrorMessage = err.Error()
		run.FinishedAt = s.now()
		s.recordRun(ctx, run)
		return
	}

	stored := 0
	for _, event := range events {
		if err := s.extractor.ExtractAndStore(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "event extraction failed",
				"external_event_id", event.ExternalID,
				"day", day.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		stored++
	}

	run.Status = ingestrun.StatusSucceeded
	run.EventsSeen = len(events)
	run.EventsStored = stored
	run.FinishedAt = s.now()
	s.recordRun(ctx, run)

	s.logger.InfoContext(ctx, "day ingested",
		"day", day.Format("2006-01-02"),
		"run_type", string(runType),
		"events_seen", len(events),
		"events_stored", stored,
	)
}

func (s *SyncService) recordRun(ctx context.Context, run ingestrun.Run) {
	if s.runRepo == nil {
		return
	}
	if err := s.runRepo.Insert(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "record ingestion run failed", "error", err)
	}
}

// pause waits the inter-request delay. Returns false when the context died.
func (s *SyncService) pause(ctx context.Context) bool {
	timer := time.NewTimer(s.cfg.RequestDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// ListRecentRuns exposes the operational run log.
func (s *SyncService) ListRecentRuns(ctx context.Context, limit int) ([]ingestrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.ListRecentRuns")
	defer span.End()

	if s.runRepo == nil {
		return nil, nil
	}
	runs, err := s.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent ingestion runs: %w", err)
	}
	return runs, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
