package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerReadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leaderboard", handler.GetSeasonLeaderboard)
	mux.HandleFunc("GET /v1/leaderboard/all-time", handler.GetAllTimeLeaderboard)
	mux.HandleFunc("GET /v1/events", handler.ListEvents)
	mux.HandleFunc("GET /v1/events/{eventName}", handler.GetEventStandings)
	mux.HandleFunc("GET /v1/participants", handler.ListParticipants)
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/current", handler.GetCurrentSeason)
	mux.HandleFunc("GET /v1/log", handler.ListRecentLog)
	mux.HandleFunc("GET /v1/fantasy-links", handler.ListFantasyLinks)
}

func registerMutationRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/placements", RequireAdminToken(adminToken, http.HandlerFunc(handler.RecordPlacement)))
	mux.Handle("DELETE /v1/placements", RequireAdminToken(adminToken, http.HandlerFunc(handler.RemovePlacement)))
	mux.Handle("POST /v1/undo", RequireAdminToken(adminToken, http.HandlerFunc(handler.UndoLast)))
	mux.Handle("POST /v1/events/{eventName}/finish", RequireAdminToken(adminToken, http.HandlerFunc(handler.FinishEvent)))
	mux.Handle("POST /v1/events/{eventName}/ingest", RequireAdminToken(adminToken, http.HandlerFunc(handler.IngestStandings)))
	mux.Handle("DELETE /v1/events/{eventName}", RequireAdminToken(adminToken, http.HandlerFunc(handler.PurgeEvent)))

	mux.Handle("POST /v1/participants", RequireAdminToken(adminToken, http.HandlerFunc(handler.RegisterParticipant)))
	mux.Handle("PUT /v1/participants/{preferredName}", RequireAdminToken(adminToken, http.HandlerFunc(handler.UpdateParticipant)))
	mux.Handle("DELETE /v1/participants/{preferredName}", RequireAdminToken(adminToken, http.HandlerFunc(handler.DeleteParticipant)))

	mux.Handle("POST /v1/seasons", RequireAdminToken(adminToken, http.HandlerFunc(handler.CreateSeason)))
	mux.Handle("POST /v1/seasons/select", RequireAdminToken(adminToken, http.HandlerFunc(handler.SelectSeason)))
	mux.Handle("POST /v1/seasons/end", RequireAdminToken(adminToken, http.HandlerFunc(handler.EndSeason)))
	mux.Handle("DELETE /v1/seasons/{seasonName}", RequireAdminToken(adminToken, http.HandlerFunc(handler.RemoveSeason)))

	mux.Handle("POST /v1/fantasy-links", RequireAdminToken(adminToken, http.HandlerFunc(handler.AddFantasyLink)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/internal/jobs/resync", RequireAdminToken(adminToken, http.HandlerFunc(handler.RunResync)))
	mux.Handle("POST /v1/internal/jobs/poll", RequireAdminToken(adminToken, http.HandlerFunc(handler.RunPoll)))
	mux.Handle("POST /v1/internal/nuke", RequireAdminToken(adminToken, http.HandlerFunc(handler.Nuke)))
}
