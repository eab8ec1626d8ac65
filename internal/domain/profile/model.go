package profile

import (
	"strings"
	"time"
)

// Role is fixed at onboarding and determines which role-specific
// attributes a profile carries. Changing it afterwards is not supported.
type Role string

const (
	RoleFan       Role = "fan"
	RoleFighter   Role = "fighter"
	RoleOrganizer Role = "organizer"
)

func ParseRole(v string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(v))) {
	case RoleFan:
		return RoleFan, true
	case RoleFighter:
		return RoleFighter, true
	case RoleOrganizer:
		return RoleOrganizer, true
	default:
		return "", false
	}
}

type Profile struct {
	UserID              string
	FullName            string
	Email               string
	DateOfBirth         time.Time
	Gender              string
	CountryCode         string
	AvatarURL           string
	Instagram           string
	YouTube             string
	Role                Role
	OnboardingCompleted bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
