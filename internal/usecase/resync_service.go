package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pitchside/pitchside/internal/domain/ingestrun"
	idgen "github.com/pitchside/pitchside/internal/platform/id"
	"github.com/pitchside/pitchside/internal/platform/logging"
)

const (
	resyncMaxRangeDays      = 31
	resyncDefaultWorkers    = 2
	resyncMaxWorkers        = 4
	resyncStatusSuccess     = "success"
	resyncStatusFetchFailed = "fetch_failed"
)

type ResyncInput struct {
	From       time.Time
	To         time.Time
	MaxWorkers int
}

type ResyncDayResult struct {
	Day          string `json:"day"`
	Status       string `json:"status"`
	EventsSeen   int    `json:"eventsSeen"`
	EventsStored int    `json:"eventsStored"`
	Message      string `json:"message,omitempty"`
	DurationMs   int64  `json:"durationMs"`
}

type ResyncResult struct {
	RequestID    string            `json:"requestId,omitempty"`
	DayCount     int               `json:"dayCount"`
	WorkerCount  int               `json:"workerCount"`
	EventsSeen   int               `json:"eventsSeen"`
	EventsStored int               `json:"eventsStored"`
	FailedDays   int               `json:"failedDays"`
	Days         []ResyncDayResult `json:"days"`
}

// ResyncService re-ingests a bounded day range on demand. Day fetches run on
// a small worker pool since they are network only; extraction stays strictly
// sequential so the store keeps a single ingestion writer.
type ResyncService struct {
	feed      FeedClient
	extractor EventExtractor
	runRepo   ingestrun.Repository
	ids       idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewResyncService(feed FeedClient, extractor EventExtractor, runRepo ingestrun.Repository, logger *logging.Logger) *ResyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ResyncService{
		feed:      feed,
		extractor: extractor,
		runRepo:   runRepo,
		ids:       idgen.NewRandomGenerator(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *ResyncService) ResyncRange(ctx context.Context, input ResyncInput) (ResyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResyncService.ResyncRange")
	defer span.End()

	if input.From.IsZero() || input.To.IsZero() {
		return ResyncResult{}, fmt.Errorf("%w: from and to dates are required", ErrInvalidInput)
	}

	from := dateOnly(input.From)
	to := dateOnly(input.To)
	if from.After(to) {
		return ResyncResult{}, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}

	days := make([]time.Time, 0, resyncMaxRangeDays)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	if len(days) > resyncMaxRangeDays {
		return ResyncResult{}, fmt.Errorf("%w: range exceeds %d days", ErrInvalidInput, resyncMaxRangeDays)
	}

	requestID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate resync request id failed", "error", err)
	}

	workerCount := normalizeResyncWorkerCount(input.MaxWorkers, len(days))
	result := ResyncResult{
		RequestID:   requestID,
		DayCount:    len(days),
		WorkerCount: workerCount,
		Days:        make([]ResyncDayResult, len(days)),
	}
	s.logger.InfoContext(ctx, "resync started",
		"request_id", requestID,
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
		"workers", workerCount,
	)

	type fetchedDay struct {
		events []ExternalEvent
		err    error
	}
	fetched := make([]fetchedDay, len(days))

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, day := range days {
		i, day := i, day
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			events, fetchErr := s.feed.FetchScoreboard(ctx, day)
			fetched[i] = fetchedDay{events: events, err: fetchErr}
		}); err != nil {
			workers.Done()
			return ResyncResult{}, fmt.Errorf("submit fetch to worker pool: %w", err)
		}
	}
	workers.Wait()

	for i, day := range days {
		start := s.now()
		row := ResyncDayResult{Day: day.Format("2006-01-02")}
		run := ingestrun.Run{
			RunType:   ingestrun.TypeResync,
			Day:       day,
			StartedAt: start,
		}

		if fetched[i].err != nil {
			row.Status = resyncStatusFetchFailed
			row.Message = fetched[i].err.Error()
			result.FailedDays++
			run.Status = ingestrun.StatusFailed
			run.ErrorMessage = fetched[i].err.Error()
		} else {
			stored := 0
			for _, event := range fetched[i].events {
				if extractErr := s.extractor.ExtractAndStore(ctx, event); extractErr != nil {
					s.logger.ErrorContext(ctx, "resync event extraction failed",
						"external_event_id", event.ExternalID,
						"day", row.Day,
						"error", extractErr,
					)
					continue
				}
				stored++
			}
			row.Status = resyncStatusSuccess
			row.EventsSeen = len(fetched[i].events)
			row.EventsStored = stored
			result.EventsSeen += row.EventsSeen
			result.EventsStored += stored
			run.Status = ingestrun.StatusSucceeded
			run.EventsSeen = row.EventsSeen
			run.EventsStored = stored
		}

		run.FinishedAt = s.now()
		if s.runRepo != nil {
			if insertErr := s.runRepo.Insert(ctx, run); insertErr != nil {
				s.logger.WarnContext(ctx, "record resync run failed", "error", insertErr)
			}
		}
		row.DurationMs = run.FinishedAt.Sub(start).Milliseconds()
		result.Days[i] = row
	}

	return result, nil
}

func normalizeResyncWorkerCount(requested, taskCount int) int {
	workers := requested
	if workers <= 0 {
		workers = resyncDefaultWorkers
	}
	if workers > resyncMaxWorkers {
		workers = resyncMaxWorkers
	}
	if taskCount > 0 && workers > taskCount {
		workers = taskCount
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
