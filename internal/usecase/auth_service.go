package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fightlinkhq/fightlink/internal/platform/logging"
)

// AccountSession is the provider-issued session returned by a successful
// sign-in.
type AccountSession struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// AccountProvider is the remote identity provider. Implementations live
// under infrastructure/account.
type AccountProvider interface {
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (AccountSession, error)
	SocialSignIn(ctx context.Context, provider, idToken string) (AccountSession, error)
	SignOut(ctx context.Context, token string) error
}

type AuthService struct {
	provider AccountProvider
	logger   *logging.Logger
}

func NewAuthService(provider AccountProvider, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AuthService{
		provider: provider,
		logger:   logger,
	}
}

func (s *AuthService) RequestCode(ctx context.Context, email string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.RequestCode")
	defer span.End()

	email = strings.TrimSpace(email)
	if !looksLikeEmail(email) {
		return fmt.Errorf("%w: a valid email address is required", ErrInvalidInput)
	}

	if err := s.provider.RequestOTP(ctx, email); err != nil {
		return fmt.Errorf("request one-time code: %w", err)
	}

	s.logger.InfoContext(ctx, "one-time code requested", "email", email)
	return nil
}

// VerifyCode exchanges a one-time code for a provider session. A
// rejected or expired code surfaces as ErrInvalidCode so the caller can
// keep the user on the sign-in screen.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) (AccountSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.VerifyCode")
	defer span.End()

	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if !looksLikeEmail(email) {
		return AccountSession{}, fmt.Errorf("%w: a valid email address is required", ErrInvalidInput)
	}
	if code == "" {
		return AccountSession{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	sess, err := s.provider.VerifyOTP(ctx, email, code)
	if err != nil {
		return AccountSession{}, err
	}

	s.logger.InfoContext(ctx, "one-time code verified", "user_id", sess.UserID)
	return sess, nil
}

func (s *AuthService) SocialSignIn(ctx context.Context, provider, idToken string) (AccountSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.SocialSignIn")
	defer span.End()

	provider = strings.ToLower(strings.TrimSpace(provider))
	switch provider {
	case "google", "apple":
	default:
		return AccountSession{}, fmt.Errorf("%w: unsupported sign-in provider %q", ErrInvalidInput, provider)
	}
	if strings.TrimSpace(idToken) == "" {
		return AccountSession{}, fmt.Errorf("%w: identity token is required", ErrInvalidInput)
	}

	sess, err := s.provider.SocialSignIn(ctx, provider, idToken)
	if err != nil {
		return AccountSession{}, err
	}

	s.logger.InfoContext(ctx, "social sign-in succeeded", "provider", provider, "user_id", sess.UserID)
	return sess, nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.SignOut")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrUnauthorized)
	}

	if err := s.provider.SignOut(ctx, token); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	return nil
}

func looksLikeEmail(v string) bool {
	at := strings.Index(v, "@")
	if at < 1 || at == len(v)-1 {
		return false
	}
	domain := v[at+1:]
	if strings.Contains(domain, "@") || !strings.Contains(domain, ".") {
		return false
	}

	return !strings.ContainsAny(v, " \t\r\n")
}
