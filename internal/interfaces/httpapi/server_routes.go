package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatchDetail)
	mux.HandleFunc("GET /v1/teams/{teamID}/form", handler.GetTeamForm)
	mux.HandleFunc("GET /v1/teams/{teamID}/head-to-head/{opponentID}", handler.GetHeadToHead)
	mux.HandleFunc("GET /v1/players/{playerID}/rating", handler.GetPlayerRating)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("GET /v1/admin/ingestion-runs", RequireAdminToken(adminToken, http.HandlerFunc(handler.ListIngestionRuns)))
	mux.Handle("POST /v1/admin/resync", RequireAdminToken(adminToken, http.HandlerFunc(handler.RunResync)))
}
