package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/fightlinkhq/fightlink/internal/config"
	"github.com/fightlinkhq/fightlink/internal/platform/logging"
	"github.com/fightlinkhq/fightlink/internal/session"
)

func newSessionGateConfig(ringsideURL, apiURL string) config.Config {
	return config.Config{
		RingsideBaseURL:     ringsideURL,
		RingsideTimeout:     time.Second,
		SessionAPIBaseURL:   apiURL,
		SessionToken:        "restored-token",
		SessionPollInterval: time.Minute,
	}
}

func newRingsideStub(t *testing.T, sessionStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/session":
			if sessionStatus != http.StatusOK {
				w.WriteHeader(sessionStatus)
				return
			}
			body, _ := sonic.Marshal(map[string]any{
				"token":      "restored-token",
				"user_id":    "user-1",
				"email":      "jon@fightlink.io",
				"expires_at": time.Now().Add(time.Hour).UTC(),
			})
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
		case "/v1/auth/events":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected ringside path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNewSessionStoreRoutesCompletedUserToApp(t *testing.T) {
	t.Parallel()

	ringsideSrv := newRingsideStub(t, http.StatusOK)
	defer ringsideSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/profiles/me" {
			t.Errorf("unexpected api path %q", r.URL.Path)
		}
		w.Write([]byte(`{"apiVersion":"2.0","data":{"profile":{"userId":"user-1","onboardingCompleted":true}}}`))
	}))
	defer apiSrv.Close()

	store, _, err := NewSessionStore(newSessionGateConfig(ringsideSrv.URL, apiSrv.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	defer store.Close()

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	state := store.State()
	if !state.Ready || !state.Authenticated || !state.HasCompletedOnboarding {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.Flow() != session.FlowApp {
		t.Fatalf("expected FlowApp, got %q", state.Flow())
	}
}

func TestNewSessionStoreFailClosedSurfacesStartupError(t *testing.T) {
	t.Parallel()

	ringsideSrv := newRingsideStub(t, http.StatusInternalServerError)
	defer ringsideSrv.Close()

	apiSrv := httptest.NewServer(http.NotFoundHandler())
	defer apiSrv.Close()

	cfg := newSessionGateConfig(ringsideSrv.URL, apiSrv.URL)
	cfg.SessionFailClosed = true

	store, _, err := NewSessionStore(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	defer store.Close()

	if err := store.Start(t.Context()); err == nil {
		t.Fatalf("expected Start to fail when the session fetch fails")
	}
	if store.State().Ready {
		t.Fatalf("store must not report ready after a failed start")
	}
}

func TestNewSessionStoreFailOpenFallsBackToSignedOut(t *testing.T) {
	t.Parallel()

	ringsideSrv := newRingsideStub(t, http.StatusInternalServerError)
	defer ringsideSrv.Close()

	apiSrv := httptest.NewServer(http.NotFoundHandler())
	defer apiSrv.Close()

	store, _, err := NewSessionStore(newSessionGateConfig(ringsideSrv.URL, apiSrv.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	defer store.Close()

	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	state := store.State()
	if !state.Ready || state.Authenticated {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.Flow() != session.FlowAuth {
		t.Fatalf("expected FlowAuth, got %q", state.Flow())
	}
}

func TestNewSessionStoreRequiresAPIBaseURL(t *testing.T) {
	t.Parallel()

	cfg := newSessionGateConfig("http://localhost:8081", "")
	if _, _, err := NewSessionStore(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error without api base url")
	}
}
