package fan

import "time"

// Preferences are the only role-specific attributes a fan carries.
type Preferences struct {
	UserID               string
	NotificationsEnabled bool
	LocationEnabled      bool
	UpdatedAt            time.Time
}
