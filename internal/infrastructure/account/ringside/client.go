package ringside

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/fightlinkhq/fightlink/internal/domain/user"
	"github.com/fightlinkhq/fightlink/internal/platform/logging"
	"github.com/fightlinkhq/fightlink/internal/platform/resilience"
	"github.com/fightlinkhq/fightlink/internal/usecase"
)

const (
	defaultIntrospectPath = "/v1/auth/introspect"
	defaultOTPRequestPath = "/v1/auth/otp/request"
	defaultOTPVerifyPath  = "/v1/auth/otp/verify"
	defaultSocialPath     = "/v1/auth/social"
	defaultSignOutPath    = "/v1/auth/signout"
	defaultSessionPath    = "/v1/auth/session"
	defaultEventsPath     = "/v1/auth/events"

	maxResponseBytes = 1 << 20
)

var errRingsideTransient = crerr.New("ringside transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	EventsPath     string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig

	// PrincipalCacheTTL bounds how long a verified access token may be
	// served without re-introspection. Zero disables the cache.
	PrincipalCacheTTL  time.Duration
	PrincipalCacheSize int
}

// Client talks to the ringside identity service. It fronts introspection
// with a short-lived principal cache and a circuit breaker so a ringside
// outage degrades to fast failures instead of piled-up timeouts.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	introspectURL  string
	otpRequestURL  string
	otpVerifyURL   string
	socialURL      string
	signOutURL     string
	sessionURL     string
	eventsURL      string
	apiKey         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	cache          *principalCache
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	introspectPath := cfg.IntrospectPath
	if strings.TrimSpace(introspectPath) == "" {
		introspectPath = defaultIntrospectPath
	}
	eventsPath := cfg.EventsPath
	if strings.TrimSpace(eventsPath) == "" {
		eventsPath = defaultEventsPath
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	cacheSize := cfg.PrincipalCacheSize
	if cacheSize < 1 {
		cacheSize = 10_000
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		introspectURL:  buildURL(baseURL, introspectPath),
		otpRequestURL:  buildURL(baseURL, defaultOTPRequestPath),
		otpVerifyURL:   buildURL(baseURL, defaultOTPVerifyPath),
		socialURL:      buildURL(baseURL, defaultSocialPath),
		signOutURL:     buildURL(baseURL, defaultSignOutPath),
		sessionURL:     buildURL(baseURL, defaultSessionPath),
		eventsURL:      buildURL(baseURL, eventsPath),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          newPrincipalCache(cfg.PrincipalCacheTTL, cacheSize),
	}
}

func (c *Client) RequestOTP(ctx context.Context, email string) error {
	payload := otpRequestBody{Email: email}
	status, body, err := c.postJSON(ctx, c.otpRequestURL, payload)
	if err != nil {
		return fmt.Errorf("request one-time code from ringside: %w", err)
	}
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: one-time code rate limited", usecase.ErrDependencyUnavailable)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("ringside otp request failed with status %d: %s", status, abbreviateBody(body))
	}

	return nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (usecase.AccountSession, error) {
	payload := otpVerifyBody{Email: email, Code: code}
	status, body, err := c.postJSON(ctx, c.otpVerifyURL, payload)
	if err != nil {
		return usecase.AccountSession{}, fmt.Errorf("verify one-time code with ringside: %w", err)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusBadRequest:
		return usecase.AccountSession{}, fmt.Errorf("%w", usecase.ErrInvalidCode)
	case status < 200 || status >= 300:
		return usecase.AccountSession{}, fmt.Errorf("ringside otp verify failed with status %d: %s", status, abbreviateBody(body))
	}

	return decodeSession(body)
}

func (c *Client) SocialSignIn(ctx context.Context, provider, idToken string) (usecase.AccountSession, error) {
	payload := socialSignInBody{Provider: provider, IDToken: idToken}
	status, body, err := c.postJSON(ctx, c.socialURL, payload)
	if err != nil {
		return usecase.AccountSession{}, fmt.Errorf("social sign-in with ringside: %w", err)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return usecase.AccountSession{}, fmt.Errorf("%w: identity token rejected", usecase.ErrUnauthorized)
	case status < 200 || status >= 300:
		return usecase.AccountSession{}, fmt.Errorf("ringside social sign-in failed with status %d: %s", status, abbreviateBody(body))
	}

	return decodeSession(body)
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	// The local principal cache must not outlive a sign-out attempt,
	// whatever the provider answers.
	c.cache.Delete(hashToken(token))

	payload := signOutBody{Token: token}
	status, body, err := c.postJSON(ctx, c.signOutURL, payload)
	if err != nil {
		return fmt.Errorf("sign out with ringside: %w", err)
	}
	// A token the provider no longer knows still counts as signed out.
	if status == http.StatusUnauthorized || status == http.StatusNotFound {
		return nil
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("ringside sign-out failed with status %d: %s", status, abbreviateBody(body))
	}

	return nil
}

// VerifyAccessToken resolves a bearer token to a principal. Concurrent
// lookups for the same token are collapsed into one introspection call.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := c.cache.Get(key); ok {
		return principal, nil
	}

	out, err, _ := c.flight.Do("introspect:"+key, func() (any, error) {
		return c.introspect(ctx, token)
	})
	if err != nil {
		return user.Principal{}, err
	}

	principal, ok := out.(user.Principal)
	if !ok {
		return user.Principal{}, fmt.Errorf("unexpected introspection result type %T", out)
	}

	c.cache.Set(key, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	status, body, err := c.postJSON(ctx, c.introspectURL, introspectBody{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("request introspection from ringside: %w", err)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}
	if status != http.StatusOK {
		c.logger.WarnContext(ctx, "ringside introspection non-200", "status_code", status)
		return user.Principal{}, fmt.Errorf("ringside introspection failed with status %d", status)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
	}, nil
}

// CurrentSession asks ringside for the session bound to the given token.
// An unknown or expired token is reported as absence, not failure.
func (c *Client) CurrentSession(ctx context.Context, token string) (usecase.AccountSession, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return usecase.AccountSession{}, false, nil
	}

	status, body, err := c.getJSON(ctx, c.sessionURL, token)
	if err != nil {
		return usecase.AccountSession{}, false, fmt.Errorf("fetch session from ringside: %w", err)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusNotFound || status == http.StatusNoContent:
		return usecase.AccountSession{}, false, nil
	case status != http.StatusOK:
		return usecase.AccountSession{}, false, fmt.Errorf("ringside session fetch failed with status %d: %s", status, abbreviateBody(body))
	}

	sess, err := decodeSession(body)
	if err != nil {
		return usecase.AccountSession{}, false, err
	}

	return sess, true, nil
}

// PollEvents long-polls the auth event feed starting after cursor.
func (c *Client) PollEvents(ctx context.Context, cursor string) (eventBatch, error) {
	url := c.eventsURL
	if strings.TrimSpace(cursor) != "" {
		url += "?cursor=" + cursor
	}

	status, body, err := c.getJSON(ctx, url, "")
	if err != nil {
		return eventBatch{}, fmt.Errorf("poll ringside events: %w", err)
	}
	if status == http.StatusNoContent {
		return eventBatch{NextCursor: cursor}, nil
	}
	if status != http.StatusOK {
		return eventBatch{}, fmt.Errorf("ringside event poll failed with status %d: %s", status, abbreviateBody(body))
	}

	var batch eventBatch
	if err := sonic.Unmarshal(body, &batch); err != nil {
		return eventBatch{}, fmt.Errorf("unmarshal event batch: %w", err)
	}

	return batch, nil
}

func (c *Client) postJSON(ctx context.Context, fullURL string, payload any) (int, []byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return 0, nil, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(buf.B))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(ctx, req)
}

func (c *Client) getJSON(ctx context.Context, fullURL, bearer string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return c.send(ctx, req)
}

// send applies the shared headers and circuit breaker around one HTTP
// round trip. Only transport errors and 5xx responses count against the
// breaker; provider-side rejections are the caller's business.
func (c *Client) send(ctx context.Context, req *http.Request) (int, []byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "ringside circuit breaker rejected request", "state", c.breaker.State())
			return 0, nil, fmt.Errorf("%w: identity provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	status, body, err := c.roundTrip(req)
	if c.circuitEnabled {
		if err != nil && isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	return status, body, err
}

func (c *Client) roundTrip(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: send request: %v", errRingsideTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response body: %v", errRingsideTransient, err)
	}

	if resp.StatusCode >= 500 {
		return resp.StatusCode, body, fmt.Errorf("%w: status=%d body=%s", errRingsideTransient, resp.StatusCode, abbreviateBody(body))
	}

	return resp.StatusCode, body, nil
}

type otpRequestBody struct {
	Email string `json:"email"`
}

type otpVerifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type socialSignInBody struct {
	Provider string `json:"provider"`
	IDToken  string `json:"id_token"`
}

type signOutBody struct {
	Token string `json:"token"`
}

type introspectBody struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type eventBatch struct {
	Events     []providerEvent `json:"events"`
	NextCursor string          `json:"next_cursor"`
}

type providerEvent struct {
	Type    string           `json:"type"`
	Session *sessionResponse `json:"session,omitempty"`
}

func decodeSession(body []byte) (usecase.AccountSession, error) {
	var decoded sessionResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return usecase.AccountSession{}, fmt.Errorf("unmarshal session response: %w", err)
	}
	if strings.TrimSpace(decoded.Token) == "" || strings.TrimSpace(decoded.UserID) == "" {
		return usecase.AccountSession{}, fmt.Errorf("invalid session response: token or user_id is empty")
	}

	return usecase.AccountSession{
		Token:     decoded.Token,
		UserID:    decoded.UserID,
		Email:     decoded.Email,
		ExpiresAt: decoded.ExpiresAt,
	}, nil
}
