package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("POST /v1/auth/otp/request", handler.RequestCode)
	mux.HandleFunc("POST /v1/auth/otp/verify", handler.VerifyCode)
	mux.HandleFunc("POST /v1/auth/social", handler.SocialSignIn)
	mux.Handle("POST /v1/auth/signout", RequireAuth(verifier, http.HandlerFunc(handler.SignOut)))
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/session", RequireAuth(verifier, http.HandlerFunc(handler.GetSession)))
	mux.Handle("GET /v1/profiles/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyProfile)))
	mux.Handle("PUT /v1/onboarding/basic-profile", RequireAuth(verifier, http.HandlerFunc(handler.SaveBasicProfile)))
	mux.Handle("PUT /v1/onboarding/role", RequireAuth(verifier, http.HandlerFunc(handler.SelectRole)))
	mux.Handle("POST /v1/onboarding/fan/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteFanOnboarding)))
	mux.Handle("POST /v1/onboarding/fighter/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteFighterOnboarding)))
	mux.Handle("POST /v1/onboarding/organizer/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteOrganizerOnboarding)))
}
