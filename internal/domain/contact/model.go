package contact

import "time"

// Info is logically one-to-one with a profile. Writes replace the whole
// row rather than patching fields.
type Info struct {
	UserID    string
	FullName  string
	Phone     string
	Email     string
	UpdatedAt time.Time
}
