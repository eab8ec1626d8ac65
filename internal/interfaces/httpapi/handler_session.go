package httpapi

import (
	"fmt"
	"net/http"

	"github.com/fightlinkhq/fightlink/internal/session"
	"github.com/fightlinkhq/fightlink/internal/usecase"
)

type sessionStateDTO struct {
	Authenticated       bool   `json:"authenticated"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
	Flow                string `json:"flow"`
	UserID              string `json:"userId"`
	Email               string `json:"email,omitempty"`
}

// GetSession reports where the caller belongs: the auth flow or the
// main app. Reaching this handler at all means the token verified, so
// only the onboarding side of the decision is looked up.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	completed, err := h.profileService.HasCompletedOnboarding(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "onboarding lookup failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionStateDTO{
		Authenticated:       true,
		OnboardingCompleted: completed,
		Flow:                string(session.Route(true, completed)),
		UserID:              principal.UserID,
		Email:               principal.Email,
	})
}
