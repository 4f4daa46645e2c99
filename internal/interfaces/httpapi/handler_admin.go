package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/pitchside/pitchside/internal/domain/ingestrun"
	"github.com/pitchside/pitchside/internal/usecase"
)

const defaultRunLogLimit = 50

type resyncRequest struct {
	From       string `json:"from" validate:"required,datetime=2006-01-02"`
	To         string `json:"to" validate:"required,datetime=2006-01-02"`
	MaxWorkers int    `json:"maxWorkers" validate:"omitempty,min=1,max=8"`
}

type ingestionRunDTO struct {
	ID           int64  `json:"id"`
	RunType      string `json:"runType"`
	Day          string `json:"day"`
	Status       string `json:"status"`
	EventsSeen   int    `json:"eventsSeen"`
	EventsStored int    `json:"eventsStored"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	StartedAt    string `json:"startedAt"`
	FinishedAt   string `json:"finishedAt"`
}

func (h *Handler) ListIngestionRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListIngestionRuns")
	defer span.End()

	limit := queryInt(r, "limit", defaultRunLogLimit)

	runs, err := h.syncService.ListRecentRuns(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list ingestion runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ingestionRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, ingestionRunToDTO(run))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RunResync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResync")
	defer span.End()

	var req resyncRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)

	result, err := h.resyncService.ResyncRange(ctx, usecase.ResyncInput{
		From:       from,
		To:         to,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resync failed", "from", req.From, "to", req.To, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func ingestionRunToDTO(run ingestrun.Run) ingestionRunDTO {
	return ingestionRunDTO{
		ID:           run.ID,
		RunType:      string(run.RunType),
		Day:          run.Day.Format("2006-01-02"),
		Status:       string(run.Status),
		EventsSeen:   run.EventsSeen,
		EventsStored: run.EventsStored,
		ErrorMessage: run.ErrorMessage,
		StartedAt:    run.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:   run.FinishedAt.UTC().Format(time.RFC3339),
	}
}
