package httpapi

import "net/http"

const defaultFormLimit = 5

func (h *Handler) GetTeamForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamForm")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit := queryInt(r, "limit", defaultFormLimit)

	entries, err := h.formService.RecentForm(ctx, teamID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get team form failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entries)
}

func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHeadToHead")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	opponentID, err := pathID(r, "opponentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.formService.HeadToHead(ctx, teamID, opponentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get head to head failed",
			"team_id", teamID,
			"opponent_id", opponentID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}
