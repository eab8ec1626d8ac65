package ringside

import (
	"context"
	"sync"
	"time"

	"github.com/fightlinkhq/fightlink/internal/platform/logging"
	"github.com/fightlinkhq/fightlink/internal/session"
)

const (
	defaultPollInterval = 2 * time.Second
	pollErrorBackoff    = 5 * time.Second
)

// Watcher adapts the ringside event feed to the session provider
// contract. One poll loop serves all subscribers; it starts with the
// first subscription and stops when the last one is released.
type Watcher struct {
	client       *Client
	logger       *logging.Logger
	pollInterval time.Duration

	mu       sync.Mutex
	token    string
	cursor   string
	handlers map[int]func(session.Event)
	nextID   int
	cancel   context.CancelFunc
}

func NewWatcher(client *Client, logger *logging.Logger, pollInterval time.Duration) *Watcher {
	if logger == nil {
		logger = logging.Default()
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Watcher{
		client:       client,
		logger:       logger,
		pollInterval: pollInterval,
		handlers:     make(map[int]func(session.Event)),
	}
}

// SetToken seeds the token used for the initial session lookup, e.g.
// one restored from device storage.
func (w *Watcher) SetToken(token string) {
	w.mu.Lock()
	w.token = token
	w.mu.Unlock()
}

// Token returns the access token of the session the watcher currently
// tracks; empty while signed out.
func (w *Watcher) Token() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.token
}

func (w *Watcher) CurrentSession(ctx context.Context) (session.Session, bool, error) {
	w.mu.Lock()
	token := w.token
	w.mu.Unlock()

	sess, ok, err := w.client.CurrentSession(ctx, token)
	if err != nil || !ok {
		return session.Session{}, false, err
	}

	return session.Session{
		Token:     sess.Token,
		UserID:    sess.UserID,
		Email:     sess.Email,
		ExpiresAt: sess.ExpiresAt,
	}, true, nil
}

func (w *Watcher) Subscribe(handler func(session.Event)) (func(), error) {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.handlers[id] = handler

	if w.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		w.cancel = cancel
		go w.poll(ctx)
	}
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.handlers, id)
		if len(w.handlers) == 0 && w.cancel != nil {
			w.cancel()
			w.cancel = nil
		}
		w.mu.Unlock()
	}, nil
}

func (w *Watcher) poll(ctx context.Context) {
	for {
		batch, err := w.client.PollEvents(ctx, w.currentCursor())
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.WarnContext(ctx, "ringside event poll failed", "error", err)
			if !sleep(ctx, pollErrorBackoff) {
				return
			}
			continue
		}

		w.advanceCursor(batch.NextCursor)
		for _, raw := range batch.Events {
			event, ok := w.mapEvent(raw)
			if !ok {
				continue
			}
			for _, handler := range w.snapshotHandlers() {
				handler(event)
			}
		}

		if len(batch.Events) == 0 && !sleep(ctx, w.pollInterval) {
			return
		}
	}
}

func (w *Watcher) mapEvent(raw providerEvent) (session.Event, bool) {
	var sess *session.Session
	if raw.Session != nil {
		sess = &session.Session{
			Token:     raw.Session.Token,
			UserID:    raw.Session.UserID,
			Email:     raw.Session.Email,
			ExpiresAt: raw.Session.ExpiresAt,
		}
	}

	switch raw.Type {
	case "signed_in":
		if sess == nil {
			return session.Event{}, false
		}
		w.SetToken(sess.Token)
		return session.Event{Type: session.EventSignedIn, Session: sess}, true
	case "signed_out":
		w.SetToken("")
		return session.Event{Type: session.EventSignedOut}, true
	case "token_refreshed":
		if sess == nil {
			return session.Event{}, false
		}
		w.SetToken(sess.Token)
		return session.Event{Type: session.EventTokenRefreshed, Session: sess}, true
	default:
		return session.Event{}, false
	}
}

func (w *Watcher) currentCursor() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

func (w *Watcher) advanceCursor(next string) {
	if next == "" {
		return
	}
	w.mu.Lock()
	w.cursor = next
	w.mu.Unlock()
}

func (w *Watcher) snapshotHandlers() []func(session.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]func(session.Event), 0, len(w.handlers))
	for _, handler := range w.handlers {
		out = append(out, handler)
	}

	return out
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
