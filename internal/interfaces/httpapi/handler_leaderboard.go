package httpapi

import "net/http"

func (h *Handler) GetSeasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonLeaderboard")
	defer span.End()

	board, err := h.leaderboardService.SeasonLeaderboard(ctx, r.URL.Query().Get("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toLeaderboardDTO(board))
}

func (h *Handler) GetAllTimeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAllTimeLeaderboard")
	defer span.End()

	board, err := h.leaderboardService.AllTimeLeaderboard(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toLeaderboardDTO(board))
}
