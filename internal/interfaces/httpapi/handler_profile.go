package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fightlinkhq/fightlink/internal/domain/contact"
	"github.com/fightlinkhq/fightlink/internal/domain/profile"
	"github.com/fightlinkhq/fightlink/internal/usecase"
)

type profileDTO struct {
	UserID              string `json:"userId"`
	FullName            string `json:"fullName"`
	Email               string `json:"email"`
	DateOfBirth         string `json:"dateOfBirth"`
	Gender              string `json:"gender,omitempty"`
	CountryCode         string `json:"countryCode,omitempty"`
	AvatarURL           string `json:"avatarUrl,omitempty"`
	Instagram           string `json:"instagram,omitempty"`
	YouTube             string `json:"youtube,omitempty"`
	Role                string `json:"role,omitempty"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
	CreatedAtUTC        string `json:"createdAtUtc"`
	UpdatedAtUTC        string `json:"updatedAtUtc"`
}

type fanSectionDTO struct {
	NotificationsEnabled bool `json:"notificationsEnabled"`
	LocationEnabled      bool `json:"locationEnabled"`
}

type contactInfoDTO struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

type sportRecordDTO struct {
	Sport  string `json:"sport"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

type fighterSectionDTO struct {
	WeightDivision float64          `json:"weightDivision"`
	WeightRange    float64          `json:"weightRange"`
	HeightCm       int              `json:"heightCm"`
	Gym            string           `json:"gym"`
	Sports         []string         `json:"sports"`
	Records        []sportRecordDTO `json:"records"`
	Contact        *contactInfoDTO  `json:"contact,omitempty"`
}

type organizerSectionDTO struct {
	JobTitle        string          `json:"jobTitle"`
	Organization    string          `json:"organization"`
	ManagedFighters []string        `json:"managedFighters"`
	Contact         *contactInfoDTO `json:"contact,omitempty"`
}

type profileDetailsDTO struct {
	Profile   profileDTO           `json:"profile"`
	Fan       *fanSectionDTO       `json:"fan,omitempty"`
	Fighter   *fighterSectionDTO   `json:"fighter,omitempty"`
	Organizer *organizerSectionDTO `json:"organizer,omitempty"`
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	details, err := h.profileService.GetMyProfile(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileDetailsToDTO(ctx, details))
}

func profileToDTO(ctx context.Context, v profile.Profile) profileDTO {
	ctx, span := startSpan(ctx, "httpapi.profileToDTO")
	defer span.End()

	dob := ""
	if !v.DateOfBirth.IsZero() {
		dob = v.DateOfBirth.UTC().Format("2006-01-02")
	}

	return profileDTO{
		UserID:              v.UserID,
		FullName:            v.FullName,
		Email:               v.Email,
		DateOfBirth:         dob,
		Gender:              v.Gender,
		CountryCode:         v.CountryCode,
		AvatarURL:           v.AvatarURL,
		Instagram:           v.Instagram,
		YouTube:             v.YouTube,
		Role:                string(v.Role),
		OnboardingCompleted: v.OnboardingCompleted,
		CreatedAtUTC:        v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:        v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func profileDetailsToDTO(ctx context.Context, v usecase.ProfileDetails) profileDetailsDTO {
	ctx, span := startSpan(ctx, "httpapi.profileDetailsToDTO")
	defer span.End()

	out := profileDetailsDTO{Profile: profileToDTO(ctx, v.Profile)}

	if v.Fan != nil {
		out.Fan = &fanSectionDTO{
			NotificationsEnabled: v.Fan.NotificationsEnabled,
			LocationEnabled:      v.Fan.LocationEnabled,
		}
	}

	if v.Fighter != nil {
		records := make([]sportRecordDTO, 0, len(v.Fighter.Records))
		for _, record := range v.Fighter.Records {
			records = append(records, sportRecordDTO{
				Sport:  record.Sport,
				Wins:   record.Wins,
				Losses: record.Losses,
				Draws:  record.Draws,
			})
		}
		out.Fighter = &fighterSectionDTO{
			WeightDivision: v.Fighter.Profile.WeightDivision,
			WeightRange:    v.Fighter.Profile.WeightRange,
			HeightCm:       v.Fighter.Profile.HeightCm,
			Gym:            v.Fighter.Profile.Gym,
			Sports:         append([]string(nil), v.Fighter.Sports...),
			Records:        records,
			Contact:        contactToDTO(v.Fighter.Contact),
		}
	}

	if v.Organizer != nil {
		out.Organizer = &organizerSectionDTO{
			JobTitle:        v.Organizer.Profile.JobTitle,
			Organization:    v.Organizer.Profile.Organization,
			ManagedFighters: append([]string(nil), v.Organizer.ManagedFighters...),
			Contact:         contactToDTO(v.Organizer.Contact),
		}
	}

	return out
}

func contactToDTO(info *contact.Info) *contactInfoDTO {
	if info == nil {
		return nil
	}

	return &contactInfoDTO{
		FullName: info.FullName,
		Phone:    info.Phone,
		Email:    info.Email,
	}
}
