package httpapi

import (
	"net/http"

	"github.com/gvfl/standings-api/internal/domain/fantasylink"
)

type addFantasyLinkRequest struct {
	FantasyID string `json:"fantasy_id" validate:"required"`
	LeagueID  string `json:"league_id" validate:"required"`
	EventName string `json:"event_name" validate:"required"`
}

func (h *Handler) ListFantasyLinks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFantasyLinks")
	defer span.End()

	links, err := h.pollService.ListLinks(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	items := make([]fantasyLinkDTO, 0, len(links))
	for _, link := range links {
		items = append(items, toFantasyLinkDTO(link))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"links": items})
}

func (h *Handler) AddFantasyLink(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddFantasyLink")
	defer span.End()

	var req addFantasyLinkRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	link := fantasylink.Link{
		FantasyID: req.FantasyID,
		LeagueID:  req.LeagueID,
		EventName: req.EventName,
		CreatedBy: actorFrom(r),
	}
	if err := h.pollService.AddLink(ctx, link); err != nil {
		h.logger.ErrorContext(ctx, "add fantasy link failed", "fantasy_id", req.FantasyID, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, toFantasyLinkDTO(link))
}

func (h *Handler) RunResync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResync")
	defer span.End()

	result, err := h.projectorService.Resync(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "resync failed", "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunPoll(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPoll")
	defer span.End()

	result, err := h.pollService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "fantasy poll failed", "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}
