package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fightlinkhq/fightlink/internal/usecase"
)

type requestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=4,max=12"`
}

type socialSignInRequest struct {
	Provider string `json:"provider" validate:"required,oneof=google apple"`
	IDToken  string `json:"id_token" validate:"required"`
}

type accountSessionDTO struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt"`
}

func (h *Handler) RequestCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestCode")
	defer span.End()

	var req requestCodeRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.authService.RequestCode(ctx, req.Email); err != nil {
		h.logger.WarnContext(ctx, "request code failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{"status": "code_sent"})
}

func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyCode")
	defer span.End()

	var req verifyCodeRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sess, err := h.authService.VerifyCode(ctx, req.Email, req.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "verify code failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, accountSessionToDTO(ctx, sess))
}

func (h *Handler) SocialSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SocialSignIn")
	defer span.End()

	var req socialSignInRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sess, err := h.authService.SocialSignIn(ctx, req.Provider, req.IDToken)
	if err != nil {
		h.logger.WarnContext(ctx, "social sign-in failed", "provider", req.Provider, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, accountSessionToDTO(ctx, sess))
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SignOut")
	defer span.End()

	token := bearerToken(r)
	if token == "" {
		writeError(ctx, w, fmt.Errorf("%w: missing bearer token", usecase.ErrUnauthorized))
		return
	}

	if err := h.authService.SignOut(ctx, token); err != nil {
		h.logger.WarnContext(ctx, "sign out failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(strings.TrimSpace(r.Header.Get("Authorization")), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func accountSessionToDTO(ctx context.Context, sess usecase.AccountSession) accountSessionDTO {
	ctx, span := startSpan(ctx, "httpapi.accountSessionToDTO")
	defer span.End()

	expiresAt := ""
	if !sess.ExpiresAt.IsZero() {
		expiresAt = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}

	return accountSessionDTO{
		Token:     sess.Token,
		UserID:    sess.UserID,
		Email:     sess.Email,
		ExpiresAt: expiresAt,
	}
}
