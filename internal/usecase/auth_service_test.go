package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fightlinkhq/fightlink/internal/platform/logging"
)

type fakeAccountProvider struct {
	requestedEmail string
	verifyErr      error
	socialProvider string
	signedOutToken string
	session        AccountSession
}

func (p *fakeAccountProvider) RequestOTP(_ context.Context, email string) error {
	p.requestedEmail = email
	return nil
}

func (p *fakeAccountProvider) VerifyOTP(_ context.Context, _, _ string) (AccountSession, error) {
	if p.verifyErr != nil {
		return AccountSession{}, p.verifyErr
	}
	return p.session, nil
}

func (p *fakeAccountProvider) SocialSignIn(_ context.Context, provider, _ string) (AccountSession, error) {
	p.socialProvider = provider
	return p.session, nil
}

func (p *fakeAccountProvider) SignOut(_ context.Context, token string) error {
	p.signedOutToken = token
	return nil
}

func newAuthFixture(provider *fakeAccountProvider) *AuthService {
	return NewAuthService(provider, logging.NewNop())
}

func TestAuthService_RequestCode(t *testing.T) {
	provider := &fakeAccountProvider{}
	service := newAuthFixture(provider)

	if err := service.RequestCode(t.Context(), "  jon@example.com "); err != nil {
		t.Fatalf("request code failed: %v", err)
	}
	if provider.requestedEmail != "jon@example.com" {
		t.Fatalf("expected trimmed email forwarded, got %q", provider.requestedEmail)
	}

	for _, email := range []string{"", "not-an-email", "@example.com", "jon@", "jon@nodot", "jon doe@example.com"} {
		if err := service.RequestCode(t.Context(), email); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", email, err)
		}
	}
}

func TestAuthService_VerifyCode(t *testing.T) {
	provider := &fakeAccountProvider{
		session: AccountSession{
			Token:     "tok-1",
			UserID:    "user-1",
			Email:     "jon@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	service := newAuthFixture(provider)

	sess, err := service.VerifyCode(t.Context(), "jon@example.com", "123456")
	if err != nil {
		t.Fatalf("verify code failed: %v", err)
	}
	if sess.UserID != "user-1" || sess.Token != "tok-1" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	if _, err := service.VerifyCode(t.Context(), "jon@example.com", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank code, got %v", err)
	}
}

func TestAuthService_VerifyCodeRejectedCode(t *testing.T) {
	provider := &fakeAccountProvider{
		verifyErr: fmt.Errorf("%w: provider rejected code", ErrInvalidCode),
	}
	service := newAuthFixture(provider)

	_, err := service.VerifyCode(t.Context(), "jon@example.com", "000000")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode to pass through, got %v", err)
	}
}

func TestAuthService_SocialSignIn(t *testing.T) {
	provider := &fakeAccountProvider{session: AccountSession{UserID: "user-1"}}
	service := newAuthFixture(provider)

	if _, err := service.SocialSignIn(t.Context(), "Google", "id-token"); err != nil {
		t.Fatalf("social sign-in failed: %v", err)
	}
	if provider.socialProvider != "google" {
		t.Fatalf("expected lowercased provider, got %q", provider.socialProvider)
	}

	if _, err := service.SocialSignIn(t.Context(), "facebook", "id-token"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unsupported provider, got %v", err)
	}
	if _, err := service.SocialSignIn(t.Context(), "apple", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank token, got %v", err)
	}
}

func TestAuthService_SignOut(t *testing.T) {
	provider := &fakeAccountProvider{}
	service := newAuthFixture(provider)

	if err := service.SignOut(t.Context(), "tok-1"); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if provider.signedOutToken != "tok-1" {
		t.Fatalf("expected token forwarded, got %q", provider.signedOutToken)
	}

	if err := service.SignOut(t.Context(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for blank token, got %v", err)
	}
}
