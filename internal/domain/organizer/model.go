package organizer

import "time"

type Profile struct {
	UserID       string
	JobTitle     string
	Organization string
	UpdatedAt    time.Time
}
