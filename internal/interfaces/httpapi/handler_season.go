package httpapi

import "net/http"

type seasonNameRequest struct {
	Name string `json:"name" validate:"required"`
}

type nukeRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	summaries, err := h.seasonService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	items := make([]seasonDTO, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, toSeasonDTO(summary))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"seasons": items})
}

func (h *Handler) GetCurrentSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentSeason")
	defer span.End()

	name, err := h.seasonService.Current(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"season": name})
}

func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSeason")
	defer span.End()

	var req seasonNameRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.seasonService.Create(ctx, req.Name, actorFrom(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "create season failed", "season", req.Name, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, seasonDTO{
		Name:      created.Name,
		CreatedBy: created.CreatedBy,
		CreatedAt: created.CreatedAt,
	})
}

func (h *Handler) SelectSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectSeason")
	defer span.End()

	var req seasonNameRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.seasonService.Select(ctx, req.Name); err != nil {
		h.logger.ErrorContext(ctx, "select season failed", "season", req.Name, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"season": req.Name})
}

func (h *Handler) EndSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EndSeason")
	defer span.End()

	winner, err := h.seasonService.End(ctx, actorFrom(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "end season failed", "error", err.Error())
		writeError(ctx, w, err)
		return
	}

	payload := map[string]any{"ended": true}
	if winner != nil {
		payload["winner"] = toWinnerDTO(*winner)
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) RemoveSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveSeason")
	defer span.End()

	seasonName := r.PathValue("seasonName")
	if err := h.seasonService.Remove(ctx, seasonName, actorFrom(r)); err != nil {
		h.logger.ErrorContext(ctx, "remove season failed", "season", seasonName, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"season": seasonName, "removed": true})
}

func (h *Handler) Nuke(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Nuke")
	defer span.End()

	var req nukeRequest
	if err := h.decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.seasonService.Nuke(ctx, actorFrom(r), req.Confirm); err != nil {
		h.logger.ErrorContext(ctx, "nuke failed", "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"nuked": true})
}
