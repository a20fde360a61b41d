package httpapi

import (
	"net/http"

	"github.com/gvfl/standings-api/internal/domain/participant"
)

type registerParticipantRequest struct {
	PreferredName string `json:"preferred_name" validate:"required"`
	FantasyName   string `json:"fantasy_name"`
	DiscordID     string `json:"discord_id"`
	DiscordName   string `json:"discord_name"`
}

type updateParticipantRequest struct {
	FantasyName string `json:"fantasy_name"`
	DiscordID   string `json:"discord_id"`
	DiscordName string `json:"discord_name"`
}

func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListParticipants")
	defer span.End()

	participants, err := h.identityService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	items := make([]participantDTO, 0, len(participants))
	for _, p := range participants {
		items = append(items, toParticipantDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"participants": items})
}

func (h *Handler) RegisterParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterParticipant")
	defer span.End()

	var req registerParticipantRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	p := participant.Participant{
		PreferredName: req.PreferredName,
		FantasyName:   req.FantasyName,
		DiscordID:     req.DiscordID,
		DiscordName:   req.DiscordName,
		CreatedBy:     actorFrom(r),
	}
	if err := h.identityService.Register(ctx, p); err != nil {
		h.logger.ErrorContext(ctx, "register participant failed", "participant", req.PreferredName, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, toParticipantDTO(p))
}

func (h *Handler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateParticipant")
	defer span.End()

	var req updateParticipantRequest
	if err := h.decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	preferredName := r.PathValue("preferredName")
	updated, err := h.identityService.UpdateAliases(ctx, preferredName, req.FantasyName, req.DiscordID, req.DiscordName)
	if err != nil {
		h.logger.ErrorContext(ctx, "update participant failed", "participant", preferredName, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toParticipantDTO(updated))
}

func (h *Handler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteParticipant")
	defer span.End()

	preferredName := r.PathValue("preferredName")
	if err := h.identityService.Delete(ctx, preferredName); err != nil {
		h.logger.ErrorContext(ctx, "delete participant failed", "participant", preferredName, "error", err.Error())
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"preferred_name": preferredName, "deleted": true})
}
