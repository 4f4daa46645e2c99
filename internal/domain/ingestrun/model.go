package ingestrun

import "time"

type RunType string

const (
	TypeBackfill RunType = "backfill"
	TypeForward  RunType = "forward"
	TypeResync   RunType = "resync"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run records one per-day fetch attempt so operators can see what the
// scheduler actually did on a given boot.
type Run struct {
	ID           int64
	RunType      RunType
	Day          time.Time
	Status       Status
	EventsSeen   int
	EventsStored int
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}
