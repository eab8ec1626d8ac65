package ringside

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fightlinkhq/fightlink/internal/platform/logging"
	"github.com/fightlinkhq/fightlink/internal/session"
)

func TestWatcherCurrentSessionUsesStoredToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/auth/session" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer restored-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		body, _ := sonic.Marshal(sessionResponse{
			Token:     "restored-token",
			UserID:    "user-1",
			Email:     "jon@fightlink.io",
			ExpiresAt: time.Now().Add(time.Hour).UTC(),
		})
		w.Write(body)
	}))
	defer srv.Close()

	watcher := NewWatcher(newTestClient(srv, 0), logging.NewNop(), time.Minute)

	// Without a token there is no session to look up.
	_, ok, err := watcher.CurrentSession(t.Context())
	if err != nil {
		t.Fatalf("current session without token: %v", err)
	}
	if ok {
		t.Fatalf("expected no session before a token is set")
	}

	watcher.SetToken("restored-token")
	sess, ok, err := watcher.CurrentSession(t.Context())
	if err != nil {
		t.Fatalf("current session: %v", err)
	}
	if !ok {
		t.Fatalf("expected a session for the restored token")
	}
	if sess.UserID != "user-1" || sess.Token != "restored-token" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestWatcherSubscribeDeliversMappedEvents(t *testing.T) {
	t.Parallel()

	var polls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/auth/events" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if polls.Add(1) > 1 {
			if got := r.URL.Query().Get("cursor"); got != "cursor-1" {
				t.Errorf("expected cursor-1 after first batch, got %q", got)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		body, _ := sonic.Marshal(eventBatch{
			Events: []providerEvent{
				{Type: "signed_in", Session: &sessionResponse{Token: "tok-1", UserID: "user-1", Email: "jon@fightlink.io"}},
				{Type: "password_changed"},
				{Type: "signed_out"},
			},
			NextCursor: "cursor-1",
		})
		w.Write(body)
	}))
	defer srv.Close()

	watcher := NewWatcher(newTestClient(srv, 0), logging.NewNop(), 10*time.Millisecond)

	events := make(chan session.Event, 8)
	unsubscribe, err := watcher.Subscribe(func(event session.Event) {
		events <- event
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsubscribe()

	first := waitForEvent(t, events)
	if first.Type != session.EventSignedIn {
		t.Fatalf("expected signed-in event first, got %v", first.Type)
	}
	if first.Session == nil || first.Session.UserID != "user-1" {
		t.Fatalf("signed-in event is missing its session: %+v", first.Session)
	}

	// The unknown event type is dropped, so the sign-out comes next.
	second := waitForEvent(t, events)
	if second.Type != session.EventSignedOut {
		t.Fatalf("expected signed-out event second, got %v", second.Type)
	}
}

func TestWatcherLastUnsubscribeStopsPolling(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	watcher := NewWatcher(newTestClient(srv, 0), logging.NewNop(), 10*time.Millisecond)

	unsubscribeA, err := watcher.Subscribe(func(session.Event) {})
	if err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	unsubscribeB, err := watcher.Subscribe(func(session.Event) {})
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}

	unsubscribeA()
	watcher.mu.Lock()
	stillPolling := watcher.cancel != nil
	watcher.mu.Unlock()
	if !stillPolling {
		t.Fatalf("poll loop stopped while a subscriber remained")
	}

	unsubscribeB()
	watcher.mu.Lock()
	stopped := watcher.cancel == nil
	watcher.mu.Unlock()
	if !stopped {
		t.Fatalf("poll loop did not stop after the last unsubscribe")
	}
}

func TestWatcherMapEvent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	watcher := NewWatcher(newTestClient(srv, 0), logging.NewNop(), time.Minute)

	refreshed, ok := watcher.mapEvent(providerEvent{
		Type:    "token_refreshed",
		Session: &sessionResponse{Token: "tok-2", UserID: "user-1"},
	})
	if !ok || refreshed.Type != session.EventTokenRefreshed {
		t.Fatalf("expected token-refreshed event, got ok=%v type=%v", ok, refreshed.Type)
	}
	watcher.mu.Lock()
	token := watcher.token
	watcher.mu.Unlock()
	if token != "tok-2" {
		t.Fatalf("expected refreshed token to be stored, got %q", token)
	}

	// A sign-in without session payload cannot be surfaced.
	if _, ok := watcher.mapEvent(providerEvent{Type: "signed_in"}); ok {
		t.Fatalf("expected session-less sign-in to be dropped")
	}
	if _, ok := watcher.mapEvent(providerEvent{Type: "mfa_enrolled"}); ok {
		t.Fatalf("expected unknown event type to be dropped")
	}

	signedOut, ok := watcher.mapEvent(providerEvent{Type: "signed_out"})
	if !ok || signedOut.Type != session.EventSignedOut {
		t.Fatalf("expected signed-out event, got ok=%v type=%v", ok, signedOut.Type)
	}
	watcher.mu.Lock()
	token = watcher.token
	watcher.mu.Unlock()
	if token != "" {
		t.Fatalf("expected sign-out to clear the stored token, got %q", token)
	}
}

func waitForEvent(t *testing.T, events <-chan session.Event) session.Event {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a session event")
		return session.Event{}
	}
}
