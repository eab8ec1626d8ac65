package profileapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/fightlinkhq/fightlink/internal/platform/logging"
	"github.com/fightlinkhq/fightlink/internal/usecase"
)

const (
	defaultTimeout   = 10 * time.Second
	profilePath      = "/v1/profiles/me"
	maxResponseBytes = 1 << 20
)

// TokenSource yields the access token for authenticated calls; the
// ringside session watcher is the usual implementation.
type TokenSource interface {
	Token() string
}

type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	Tokens     TokenSource
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client reads the caller's own profile over the HTTP API. It backs the
// session holder's onboarding-completion lookups on devices, which never
// talk to the database directly.
type Client struct {
	httpClient *http.Client
	profileURL string
	tokens     TokenSource
	logger     *logging.Logger
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		httpClient: httpClient,
		profileURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + profilePath,
		tokens:     cfg.Tokens,
		logger:     logger,
	}
}

// HasCompletedOnboarding reports the completion flag of the profile the
// current token resolves to. A missing profile means onboarding has not
// begun yet.
func (c *Client) HasCompletedOnboarding(ctx context.Context, userID string) (bool, error) {
	token := ""
	if c.tokens != nil {
		token = strings.TrimSpace(c.tokens.Token())
	}
	if token == "" {
		return false, fmt.Errorf("%w: no access token for profile fetch", usecase.ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return false, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, fmt.Errorf("read profile response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, fmt.Errorf("%w: profile fetch rejected", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("profile fetch failed with status %d", resp.StatusCode)
	}

	var decoded profileEnvelope
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return false, fmt.Errorf("unmarshal profile response: %w", err)
	}
	if got := decoded.Data.Profile.UserID; got != "" && userID != "" && got != userID {
		return false, fmt.Errorf("profile fetch resolved user %q, expected %q", got, userID)
	}

	return decoded.Data.Profile.OnboardingCompleted, nil
}

type profileEnvelope struct {
	Data struct {
		Profile struct {
			UserID              string `json:"userId"`
			OnboardingCompleted bool   `json:"onboardingCompleted"`
		} `json:"profile"`
	} `json:"data"`
}
