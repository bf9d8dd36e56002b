package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/sports", handler.ListSports)
	mux.HandleFunc("GET /v1/sports/{sportCode}", handler.GetSport)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/availability", handler.GetMatchAvailability)
	mux.HandleFunc("GET /v1/matches/{matchID}/teams", handler.ListTeams)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("PATCH /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("POST /v1/matches/{matchID}/publish", RequireAuth(verifier, http.HandlerFunc(handler.PublishMatch)))
	mux.Handle("POST /v1/matches/{matchID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelMatch)))
	mux.Handle("POST /v1/matches/{matchID}/reschedule", RequireAuth(verifier, http.HandlerFunc(handler.RescheduleMatch)))
	mux.Handle("GET /v1/clubs/{clubID}/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListClubMatches)))

	mux.Handle("POST /v1/matches/{matchID}/bookings", RequireAuth(verifier, http.HandlerFunc(handler.ReserveBooking)))
	mux.Handle("POST /v1/bookings/{bookingID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelBooking)))
	mux.Handle("PUT /v1/bookings/{bookingID}/paid", RequireAuth(verifier, http.HandlerFunc(handler.SetBookingPaid)))

	mux.Handle("POST /v1/matches/{matchID}/teams", RequireAuth(verifier, http.HandlerFunc(handler.GenerateTeams)))
	mux.Handle("POST /v1/team-members/{memberID}/move", RequireAuth(verifier, http.HandlerFunc(handler.MoveTeamMember)))

	mux.Handle("PUT /v1/sports/{sportCode}", RequireAuth(verifier, http.HandlerFunc(handler.UpsertSport)))
}
