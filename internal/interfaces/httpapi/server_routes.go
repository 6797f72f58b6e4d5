package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/teams", handler.ListTeamsBySeason)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/standings/latest", handler.GetLatestStandings)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/baseline", handler.GetBaseline)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/predictions", RequireUser(http.HandlerFunc(handler.CreatePrediction)))
	mux.Handle("GET /v1/predictions/me", RequireUser(http.HandlerFunc(handler.GetMyRanking)))
	mux.Handle("PUT /v1/predictions/me/rankings", RequireUser(http.HandlerFunc(handler.SubmitMyRankings)))
	mux.Handle("POST /v1/predictions/me/swaps", RequireUser(http.HandlerFunc(handler.SwapMyTeams)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/standings/resync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunStandingsResync)))
}
