package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gvfl/standings-api/internal/usecase"
)

func (h *Handler) RecordPlacement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordPlacement")
	defer span.End()

	var input usecase.PlacementInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}
	if input.Actor == "" {
		input.Actor = actorFrom(r)
	}

	result, err := h.standingsService.RecordPlacement(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "record placement failed", "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, result)
}

func (h *Handler) RemovePlacement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePlacement")
	defer span.End()

	var input usecase.PlacementInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}
	if input.Actor == "" {
		input.Actor = actorFrom(r)
	}

	result, err := h.standingsService.RemovePlacement(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "remove placement failed", "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) UndoLast(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoLast")
	defer span.End()

	result, err := h.standingsService.UndoLast(ctx, actorFrom(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "undo failed", "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) FinishEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishEvent")
	defer span.End()

	eventName := r.PathValue("eventName")
	if err := h.standingsService.MarkEventFinished(ctx, eventName); err != nil {
		h.logger.ErrorContext(ctx, "finish event failed", "event", eventName, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"event_name": eventName, "finished": true})
}

func (h *Handler) IngestStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestStandings")
	defer span.End()

	var input usecase.IngestInput
	if err := h.decode(r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}
	// The path names the event; a body event_name is ignored.
	input.EventName = r.PathValue("eventName")
	if err := h.validate(&input); err != nil {
		writeError(ctx, w, err)
		return
	}
	if input.Actor == "" {
		input.Actor = actorFrom(r)
	}

	result, err := h.ingestionService.IngestFinalStandings(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "ingest standings failed", "event", input.EventName, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) PurgeEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PurgeEvent")
	defer span.End()

	eventName := r.PathValue("eventName")
	if err := h.standingsService.PurgeEvent(ctx, eventName, actorFrom(r)); err != nil {
		h.logger.ErrorContext(ctx, "purge event failed", "event", eventName, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"event_name": eventName, "purged": true})
}

func (h *Handler) GetEventStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventStandings")
	defer span.End()

	event, placements, err := h.standingsService.EventStandings(ctx, r.PathValue("eventName"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, eventStandingsDTO{
		Event:      toEventDTO(event),
		Placements: toPlacementDTOs(placements),
	})
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	events, err := h.standingsService.ListEvents(ctx, r.URL.Query().Get("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	items := make([]eventDTO, 0, len(events))
	for _, event := range events {
		items = append(items, toEventDTO(event))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"events": items})
}

func (h *Handler) ListRecentLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecentLog")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			limit = parsed
		}
	}

	entries, err := h.standingsService.RecentLog(ctx, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	items := make([]auditEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toAuditEntryDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"entries": items})
}
