package devauth

import (
	"context"
	"strings"
	"testing"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "dev-user", Email: "dev@example.com", DisplayName: "Dev User"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	url, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !strings.HasPrefix(url, "/auth/callback?") {
		t.Fatalf("unexpected authURL: %s", url)
	}
	if state == "" || nonce == "" {
		t.Fatal("state and nonce should be generated")
	}
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.UserID != "dev-user" || id.Email != "dev@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.DisplayName != "Dev User" {
		t.Fatalf("unexpected display name: %s", id.DisplayName)
	}
}

func TestProvider_SignIn(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "dev-user", Email: "dev@example.com"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}

	id, err := prov.SignIn(context.Background(), "dev@example.com", "anything")
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if id.UserID != "dev-user" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	// Other emails get a derived identity.
	other, err := prov.SignIn(context.Background(), "guest@example.com", "pw")
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if other.UserID != "dev-guest@example.com" {
		t.Fatalf("unexpected identity: %+v", other)
	}
}

func TestProvider_SignIn_EmptyPasswordIsWrongPassword(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "dev-user", Email: "dev@example.com"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}

	_, err = prov.SignIn(context.Background(), "dev@example.com", "")
	ae, ok := domainauth.AsAuthError(err)
	if !ok {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if ae.Kind != domainauth.ErrWrongPassword {
		t.Fatalf("expected wrong password kind, got %s", ae.Kind)
	}
}

func TestProvider_SignUp_Validation(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "dev-user", Email: "dev@example.com"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}

	_, err = prov.SignUp(context.Background(), ports.SignUpInput{Email: "not-an-email", Password: "secret1"})
	if ae, ok := domainauth.AsAuthError(err); !ok || ae.Kind != domainauth.ErrInvalidEmail {
		t.Fatalf("expected invalid email kind, got %v", err)
	}

	_, err = prov.SignUp(context.Background(), ports.SignUpInput{Email: "a@b.c", Password: "short"})
	if ae, ok := domainauth.AsAuthError(err); !ok || ae.Kind != domainauth.ErrWeakPassword {
		t.Fatalf("expected weak password kind, got %v", err)
	}

	id, err := prov.SignUp(context.Background(), ports.SignUpInput{Email: "a@b.c", Password: "secret1", DisplayName: "A B"})
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if id.Email != "a@b.c" || id.DisplayName != "A B" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
