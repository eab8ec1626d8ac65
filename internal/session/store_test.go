package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fightlinkhq/fightlink/internal/platform/logging"
)

type fakeProvider struct {
	mu         sync.Mutex
	session    Session
	hasSession bool
	sessionErr error
	handler    func(Event)
}

func (p *fakeProvider) CurrentSession(_ context.Context) (Session, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sessionErr != nil {
		return Session{}, false, p.sessionErr
	}
	return p.session, p.hasSession, nil
}

func (p *fakeProvider) Subscribe(handler func(Event)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.handler = nil
	}, nil
}

func (p *fakeProvider) emit(ev Event) {
	p.mu.Lock()
	handler := p.handler
	p.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

type fakeCompletion struct {
	mu        sync.Mutex
	completed map[string]bool
	err       error

	// Lookups for blockUser signal entered and then park on release.
	blockUser string
	entered   chan struct{}
	release   chan struct{}
}

func (c *fakeCompletion) HasCompletedOnboarding(_ context.Context, userID string) (bool, error) {
	c.mu.Lock()
	err := c.err
	done := c.completed[userID]
	blocked := c.blockUser != "" && c.blockUser == userID
	entered := c.entered
	release := c.release
	c.mu.Unlock()

	if blocked {
		close(entered)
		<-release
	}
	if err != nil {
		return false, err
	}
	return done, nil
}

func newStoreFixture(t *testing.T, provider *fakeProvider, completion *fakeCompletion, failClosed bool) *Store {
	t.Helper()

	store, err := NewStore(Config{
		Provider:   provider,
		Completion: completion,
		FailClosed: failClosed,
		Logger:     logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)

	return store
}

func TestStoreStartSignedOut(t *testing.T) {
	provider := &fakeProvider{}
	store := newStoreFixture(t, provider, &fakeCompletion{}, false)

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	state := store.State()
	if !state.Ready || state.Authenticated {
		t.Fatalf("expected ready signed-out state, got %+v", state)
	}
	if state.Flow() != FlowAuth {
		t.Fatalf("expected auth flow, got %q", state.Flow())
	}
}

func TestStoreStartSignedInAndOnboarded(t *testing.T) {
	provider := &fakeProvider{
		session:    Session{Token: "tok-1", UserID: "user-1"},
		hasSession: true,
	}
	completion := &fakeCompletion{completed: map[string]bool{"user-1": true}}
	store := newStoreFixture(t, provider, completion, false)

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	state := store.State()
	if !state.Authenticated || !state.HasCompletedOnboarding {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.Flow() != FlowApp {
		t.Fatalf("expected app flow, got %q", state.Flow())
	}
}

func TestStoreStartFailOpen(t *testing.T) {
	provider := &fakeProvider{sessionErr: fmt.Errorf("provider down")}
	store := newStoreFixture(t, provider, &fakeCompletion{}, false)

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("expected fail-open start to succeed, got %v", err)
	}

	state := store.State()
	if !state.Ready || state.Authenticated {
		t.Fatalf("expected signed-out fallback state, got %+v", state)
	}
}

func TestStoreStartFailClosed(t *testing.T) {
	provider := &fakeProvider{sessionErr: fmt.Errorf("provider down")}
	store := newStoreFixture(t, provider, &fakeCompletion{}, true)

	if err := store.Start(t.Context()); err == nil {
		t.Fatal("expected fail-closed start to return the error")
	}
	if store.State().Ready {
		t.Fatal("store must not become ready after a fail-closed error")
	}
}

func TestStoreSignInAndSignOutEvents(t *testing.T) {
	provider := &fakeProvider{}
	completion := &fakeCompletion{completed: map[string]bool{"user-1": true}}
	store := newStoreFixture(t, provider, completion, false)

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	provider.emit(Event{Type: EventSignedIn, Session: &Session{Token: "tok-1", UserID: "user-1"}})
	state := store.State()
	if !state.Authenticated || !state.HasCompletedOnboarding || state.Session.UserID != "user-1" {
		t.Fatalf("unexpected state after sign-in: %+v", state)
	}

	provider.emit(Event{Type: EventSignedOut})
	state = store.State()
	if state.Authenticated || state.HasCompletedOnboarding {
		t.Fatalf("unexpected state after sign-out: %+v", state)
	}
	if state.Flow() != FlowAuth {
		t.Fatalf("expected auth flow after sign-out, got %q", state.Flow())
	}
}

func TestStoreMarkOnboardingComplete(t *testing.T) {
	provider := &fakeProvider{
		session:    Session{Token: "tok-1", UserID: "user-1"},
		hasSession: true,
	}
	store := newStoreFixture(t, provider, &fakeCompletion{}, false)

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if store.State().Flow() != FlowAuth {
		t.Fatalf("expected auth flow before completion")
	}

	store.MarkOnboardingComplete()

	state := store.State()
	if !state.HasCompletedOnboarding {
		t.Fatal("expected completion flag set")
	}
	if state.Flow() != FlowApp {
		t.Fatalf("expected app flow after completion, got %q", state.Flow())
	}
}

func TestStoreMarkOnboardingCompleteIgnoredWhenSignedOut(t *testing.T) {
	provider := &fakeProvider{}
	store := newStoreFixture(t, provider, &fakeCompletion{}, false)

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	store.MarkOnboardingComplete()
	if store.State().HasCompletedOnboarding {
		t.Fatal("completion flag must not flip without a session")
	}
}

// A completion fetch that resolves after a newer session event has been
// observed must not clobber the newer state.
func TestStoreStaleCompletionFetchDiscarded(t *testing.T) {
	provider := &fakeProvider{}
	completion := &fakeCompletion{completed: map[string]bool{
		"user-old": true,
		"user-new": true,
	}}
	store := newStoreFixture(t, provider, completion, false)

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	completion.mu.Lock()
	completion.blockUser = "user-old"
	completion.entered = entered
	completion.release = release
	completion.mu.Unlock()

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		provider.emit(Event{Type: EventSignedIn, Session: &Session{Token: "tok-old", UserID: "user-old"}})
	}()
	<-entered

	// The second event lands while the first completion fetch is parked.
	provider.emit(Event{Type: EventSignedIn, Session: &Session{Token: "tok-new", UserID: "user-new"}})
	close(release)
	<-firstDone

	state := store.State()
	if state.Session.UserID != "user-new" {
		t.Fatalf("expected newest session to win, got %q", state.Session.UserID)
	}
}

func TestStoreWatchOrdering(t *testing.T) {
	provider := &fakeProvider{}
	completion := &fakeCompletion{completed: map[string]bool{"user-1": true}}
	store := newStoreFixture(t, provider, completion, false)

	var mu sync.Mutex
	var flows []Flow
	unwatch := store.Watch(func(state State) {
		mu.Lock()
		flows = append(flows, state.Flow())
		mu.Unlock()
	})
	defer unwatch()

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	provider.emit(Event{Type: EventSignedIn, Session: &Session{Token: "tok-1", UserID: "user-1"}})
	provider.emit(Event{Type: EventSignedOut})

	mu.Lock()
	defer mu.Unlock()
	want := []Flow{FlowAuth, FlowApp, FlowAuth}
	if len(flows) != len(want) {
		t.Fatalf("expected %d notifications, got %v", len(want), flows)
	}
	for i := range want {
		if flows[i] != want[i] {
			t.Fatalf("unexpected flow sequence: %v", flows)
		}
	}
}
