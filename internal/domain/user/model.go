package user

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
}
