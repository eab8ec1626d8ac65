package session

import (
	"context"
	"time"
)

// Session mirrors a server-issued authentication session. It is owned by
// the auth provider; holders treat it as a read-only cache.
type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventTokenRefreshed EventType = "token_refreshed"
)

// Event is a session-change notification from the auth provider.
// Session is nil for sign-out events.
type Event struct {
	Type    EventType
	Session *Session
}

// Provider is the auth provider surface the store depends on.
type Provider interface {
	CurrentSession(ctx context.Context) (Session, bool, error)
	Subscribe(handler func(Event)) (unsubscribe func(), err error)
}

// CompletionSource reports whether a user has finished onboarding. The
// answer is authoritative; local copies are stale until confirmed.
type CompletionSource interface {
	HasCompletedOnboarding(ctx context.Context, userID string) (bool, error)
}
