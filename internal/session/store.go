package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/fightlinkhq/fightlink/internal/platform/logging"
)

// State is the store's view of who is signed in and whether they have
// finished onboarding. Ready is false until the initial sync resolves;
// callers should show a loading state instead of routing until then.
type State struct {
	Ready                  bool
	Authenticated          bool
	Session                Session
	HasCompletedOnboarding bool
}

// Flow applies the navigation gate to this state.
func (s State) Flow() Flow {
	return Route(s.Authenticated, s.HasCompletedOnboarding)
}

type Config struct {
	Provider   Provider
	Completion CompletionSource

	// FailClosed makes Start return the error when the initial session or
	// completion fetch fails, leaving the store not ready so the caller
	// can retry. The default treats such failures as signed-out.
	FailClosed bool

	Logger *logging.Logger
}

// Store is the single holder of session and onboarding-completion state.
// It is constructed once, started, and passed explicitly to whatever
// needs to route on it; there is no ambient global.
type Store struct {
	provider   Provider
	completion CompletionSource
	failClosed bool
	logger     *logging.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	mu          sync.Mutex
	state       State
	gen         uint64
	watchers    map[int]func(State)
	nextWatcher int
	pending     []State
	notifying   bool
	unsubscribe func()
	closed      bool
}

func NewStore(cfg Config) (*Store, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("session provider is required")
	}
	if cfg.Completion == nil {
		return nil, fmt.Errorf("completion source is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		provider:   cfg.Provider,
		completion: cfg.Completion,
		failClosed: cfg.FailClosed,
		logger:     logger,
		baseCtx:    ctx,
		cancel:     cancel,
		watchers:   make(map[int]func(State)),
	}, nil
}

// Start performs the initial sync and registers the provider listener.
// The store is not Ready, and Route must not be consulted, until Start
// returns nil.
func (s *Store) Start(ctx context.Context) error {
	state, err := s.initialState(ctx)
	if err != nil {
		return err
	}
	s.apply(state)

	unsubscribe, err := s.provider.Subscribe(s.handleEvent)
	if err != nil {
		return fmt.Errorf("subscribe to session events: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsubscribe()
		return fmt.Errorf("session store is closed")
	}
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	return nil
}

func (s *Store) initialState(ctx context.Context) (State, error) {
	sess, ok, err := s.provider.CurrentSession(ctx)
	if err != nil {
		if s.failClosed {
			return State{}, fmt.Errorf("fetch current session: %w", err)
		}
		s.logger.WarnContext(ctx, "initial session fetch failed, treating as signed out", "error", err)
		return State{Ready: true}, nil
	}
	if !ok {
		return State{Ready: true}, nil
	}

	completed, err := s.completion.HasCompletedOnboarding(ctx, sess.UserID)
	if err != nil {
		if s.failClosed {
			return State{}, fmt.Errorf("fetch onboarding completion: %w", err)
		}
		s.logger.WarnContext(ctx, "initial completion fetch failed, treating as signed out",
			"user_id", sess.UserID, "error", err)
		return State{Ready: true}, nil
	}

	return State{
		Ready:                  true,
		Authenticated:          true,
		Session:                sess,
		HasCompletedOnboarding: completed,
	}, nil
}

// handleEvent re-derives state from a provider event. Each event takes a
// new generation; a completion fetch that resolves after a newer event
// has been observed is discarded, so two events in quick succession can
// never leave the state describing the older session.
func (s *Store) handleEvent(ev Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen

	if ev.Type == EventSignedOut || ev.Session == nil {
		s.applyLocked(State{Ready: true})
		s.mu.Unlock()
		return
	}
	sess := *ev.Session
	s.mu.Unlock()

	completed, err := s.completion.HasCompletedOnboarding(s.baseCtx, sess.UserID)

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.logger.Warn("completion fetch failed on session change, treating onboarding as incomplete",
			"user_id", sess.UserID, "error", err)
		completed = false
	}
	s.applyLocked(State{
		Ready:                  true,
		Authenticated:          true,
		Session:                sess,
		HasCompletedOnboarding: completed,
	})
	s.mu.Unlock()
}

// MarkOnboardingComplete flips the local flag after a confirmed remote
// completion write. No re-fetch is needed; the remote flag was just set
// by the caller.
func (s *Store) MarkOnboardingComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.state.Authenticated {
		return
	}
	s.gen++
	next := s.state
	next.HasCompletedOnboarding = true
	s.applyLocked(next)
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Watch registers an observer called with every state change, in order.
// The returned func removes the observer.
func (s *Store) Watch(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.nextWatcher
	s.nextWatcher++
	s.watchers[key] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, key)
	}
}

// Close unsubscribes from the provider and cancels any in-flight
// completion fetch tied to the store's lifetime.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	s.cancel()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Store) apply(state State) {
	s.mu.Lock()
	s.applyLocked(state)
	s.mu.Unlock()
}

// applyLocked records the state and drains notifications without holding
// the lock during callbacks. The pending queue keeps delivery ordered
// even when a watcher triggers another state change.
func (s *Store) applyLocked(state State) {
	s.state = state
	s.pending = append(s.pending, state)
	if s.notifying {
		return
	}
	s.notifying = true

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		observers := make([]func(State), 0, len(s.watchers))
		for _, fn := range s.watchers {
			observers = append(observers, fn)
		}

		s.mu.Unlock()
		for _, fn := range observers {
			fn(next)
		}
		s.mu.Lock()
	}
	s.notifying = false
}
