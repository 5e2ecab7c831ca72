package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/stats", handler.ListPlayerStats)
	mux.HandleFunc("GET /v1/fantasy/teams", handler.ListFantasyTeams)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/summary", handler.GetMatchSummary)
	mux.HandleFunc("GET /v1/payments", handler.ListPayments)
	mux.HandleFunc("GET /v1/fines", handler.ListFines)
	mux.HandleFunc("GET /v1/dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /v1/validation", handler.ListValidation)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/warm-cache", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunWarmCacheJob)))
}
