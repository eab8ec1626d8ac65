package httpapi

import (
	"fmt"
	"net/http"

	"github.com/fightlinkhq/fightlink/internal/usecase"
)

type basicProfileRequest struct {
	FullName    string `json:"fullName" validate:"required,max=120"`
	Email       string `json:"email" validate:"omitempty,email"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
	CountryCode string `json:"countryCode" validate:"omitempty,len=2"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url"`
	Instagram   string `json:"instagram" validate:"omitempty,max=100"`
	YouTube     string `json:"youtube" validate:"omitempty,max=200"`
}

type selectRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=fan fighter organizer"`
}

type fanCompleteRequest struct {
	NotificationsEnabled bool `json:"notificationsEnabled"`
	LocationEnabled      bool `json:"locationEnabled"`
}

type contactInfoRequest struct {
	FullName string `json:"fullName" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type matchRecordRequest struct {
	Sport  string `json:"sport" validate:"required,max=60"`
	Result string `json:"result" validate:"required,oneof=Won Lost Draw"`
}

type fighterCompleteRequest struct {
	Sports         []string             `json:"sports" validate:"required,min=1,dive,required"`
	WeightDivision string               `json:"weightDivision" validate:"required"`
	WeightRange    string               `json:"weightRange" validate:"required"`
	Height         string               `json:"height" validate:"required"`
	Gym            string               `json:"gym" validate:"required,max=120"`
	Contact        contactInfoRequest   `json:"contact" validate:"required"`
	Matches        []matchRecordRequest `json:"matches" validate:"dive"`
}

type organizerCompleteRequest struct {
	JobTitle     string             `json:"jobTitle" validate:"required,max=120"`
	Organization string             `json:"organization" validate:"required,max=120"`
	Contact      contactInfoRequest `json:"contact" validate:"required"`
	Fighters     []string           `json:"fighters" validate:"dive,required"`
}

func (h *Handler) SaveBasicProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveBasicProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req basicProfileRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.onboardingService.SaveBasicProfile(ctx, usecase.BasicProfileInput{
		UserID:      principal.UserID,
		FullName:    req.FullName,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		CountryCode: req.CountryCode,
		AvatarURL:   req.AvatarURL,
		Instagram:   req.Instagram,
		YouTube:     req.YouTube,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save basic profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, saved))
}

func (h *Handler) SelectRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectRole")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req selectRoleRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.onboardingService.SelectRole(ctx, principal.UserID, req.Role)
	if err != nil {
		h.logger.WarnContext(ctx, "select role failed", "user_id", principal.UserID, "role", req.Role, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, saved))
}

func (h *Handler) CompleteFanOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteFanOnboarding")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req fanCompleteRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	completed, err := h.onboardingService.CompleteFan(ctx, usecase.FanOnboardingInput{
		UserID:               principal.UserID,
		NotificationsEnabled: req.NotificationsEnabled,
		LocationEnabled:      req.LocationEnabled,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "complete fan onboarding failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, completed))
}

func (h *Handler) CompleteFighterOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteFighterOnboarding")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req fighterCompleteRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matches := make([]usecase.MatchRecordInput, 0, len(req.Matches))
	for _, match := range req.Matches {
		matches = append(matches, usecase.MatchRecordInput{Sport: match.Sport, Result: match.Result})
	}

	completed, err := h.onboardingService.CompleteFighter(ctx, usecase.FighterOnboardingInput{
		UserID:         principal.UserID,
		Sports:         req.Sports,
		WeightDivision: req.WeightDivision,
		WeightRange:    req.WeightRange,
		Height:         req.Height,
		Gym:            req.Gym,
		Contact: usecase.ContactInfoInput{
			FullName: req.Contact.FullName,
			Phone:    req.Contact.Phone,
			Email:    req.Contact.Email,
		},
		Matches: matches,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "complete fighter onboarding failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, completed))
}

func (h *Handler) CompleteOrganizerOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteOrganizerOnboarding")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req organizerCompleteRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	completed, err := h.onboardingService.CompleteOrganizer(ctx, usecase.OrganizerOnboardingInput{
		UserID:       principal.UserID,
		JobTitle:     req.JobTitle,
		Organization: req.Organization,
		Contact: usecase.ContactInfoInput{
			FullName: req.Contact.FullName,
			Phone:    req.Contact.Phone,
			Email:    req.Contact.Email,
		},
		Fighters: req.Fighters,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "complete organizer onboarding failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, completed))
}
