package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
	})
	require.NoError(t, err)
	return client
}

func writeProviderError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":"%s"}}`, status, code)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL is required")

	_, err = NewClient(Config{BaseURL: "http://localhost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestClient_SignIn_Success(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "secret1", body["password"])

		_ = json.NewEncoder(w).Encode(authResponse{
			LocalID:       "user-1",
			Email:         "ada@example.com",
			DisplayName:   "Ada",
			EmailVerified: true,
			IDToken:       "tok-abc",
			ExpiresIn:     "3600",
		})
	}))

	identity, err := client.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "Ada", identity.DisplayName)
	assert.True(t, identity.EmailVerified)
	assert.WithinDuration(t, time.Now().Add(time.Hour), identity.ExpiresAt, 5*time.Second)
}

func TestClient_SignIn_WrongPassword(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProviderError(w, http.StatusBadRequest, "INVALID_PASSWORD")
	}))

	_, err := client.SignIn(context.Background(), "ada@example.com", "nope")
	ae, ok := domainauth.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, domainauth.ErrWrongPassword, ae.Kind)

	// The rendered sentence is the fixed one, not provider text.
	assert.Equal(t, "Incorrect password. Please try again.", ae.Message())
}

func TestClient_SignUp_EmailExists(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signUp", r.URL.Path)
		writeProviderError(w, http.StatusBadRequest, "EMAIL_EXISTS")
	}))

	_, err := client.SignUp(context.Background(), ports.SignUpInput{
		Email:       "ada@example.com",
		Password:    "secret1",
		DisplayName: "Ada",
	})
	ae, ok := domainauth.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, domainauth.ErrEmailInUse, ae.Kind)
}

func TestClient_SignUp_KeepsSubmittedDisplayName(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Provider omits displayName in the response.
		_ = json.NewEncoder(w).Encode(authResponse{
			LocalID:   "user-2",
			Email:     "ada@example.com",
			IDToken:   "tok",
			ExpiresIn: "3600",
		})
	}))

	identity, err := client.SignUp(context.Background(), ports.SignUpInput{
		Email:       "ada@example.com",
		Password:    "secret1",
		DisplayName: "Ada Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", identity.DisplayName)
}

func TestClient_SessionDurationCapsExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(authResponse{
			LocalID:   "user-1",
			Email:     "ada@example.com",
			IDToken:   "tok",
			ExpiresIn: "86400",
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:         server.URL,
		APIKey:          "k",
		SessionDuration: 30 * time.Minute,
	})
	require.NoError(t, err)

	identity, err := client.SignIn(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), identity.ExpiresAt, 5*time.Second)
}

func TestClient_SendVerificationEmail(t *testing.T) {
	var gotType, gotEmail string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:sendOobCode", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotType, _ = body["requestType"].(string)
		gotEmail, _ = body["email"].(string)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	}))

	require.NoError(t, client.SendVerificationEmail(context.Background(), "ada@example.com"))
	assert.Equal(t, "VERIFY_EMAIL", gotType)
	assert.Equal(t, "ada@example.com", gotEmail)
}

func TestClient_ChangePassword_ReauthenticatesFirst(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/accounts:signInWithPassword":
			_ = json.NewEncoder(w).Encode(authResponse{
				LocalID: "user-1", Email: "ada@example.com", IDToken: "fresh-tok", ExpiresIn: "3600",
			})
		case "/accounts:update":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "fresh-tok", body["idToken"])
			assert.Equal(t, "new-secret", body["password"])
			fmt.Fprint(w, `{}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	err := client.ChangePassword(context.Background(), ports.ChangePasswordInput{
		Email:           "ada@example.com",
		CurrentPassword: "old-secret",
		NewPassword:     "new-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/accounts:signInWithPassword", "/accounts:update"}, paths)
}

func TestClient_ChangePassword_WrongCurrentPassword(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProviderError(w, http.StatusBadRequest, "INVALID_LOGIN_CREDENTIALS")
	}))

	err := client.ChangePassword(context.Background(), ports.ChangePasswordInput{
		Email:           "ada@example.com",
		CurrentPassword: "wrong",
		NewPassword:     "new-secret",
	})
	ae, ok := domainauth.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, domainauth.ErrWrongPassword, ae.Kind)
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client, err := NewClient(Config{BaseURL: server.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = client.SignIn(context.Background(), "ada@example.com", "pw")
	ae, ok := domainauth.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, domainauth.ErrNetworkFailure, ae.Kind)
}

func TestClassifyProviderError(t *testing.T) {
	tests := []struct {
		code string
		want domainauth.ErrorKind
	}{
		{"INVALID_EMAIL", domainauth.ErrInvalidEmail},
		{"USER_DISABLED", domainauth.ErrUserDisabled},
		{"EMAIL_NOT_FOUND", domainauth.ErrUserNotFound},
		{"INVALID_PASSWORD", domainauth.ErrWrongPassword},
		{"INVALID_LOGIN_CREDENTIALS", domainauth.ErrWrongPassword},
		{"EMAIL_EXISTS", domainauth.ErrEmailInUse},
		{"OPERATION_NOT_ALLOWED", domainauth.ErrOperationNotAllowed},
		{"WEAK_PASSWORD : Password should be at least 6 characters", domainauth.ErrWeakPassword},
		{"SOMETHING_NEW", domainauth.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			body := fmt.Appendf(nil, `{"error":{"code":400,"message":%q}}`, tt.code)
			got := classifyProviderError(http.StatusBadRequest, body)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.code, got.Raw)
		})
	}
}

func TestClassifyProviderError_UnparseableBody(t *testing.T) {
	got := classifyProviderError(http.StatusBadGateway, []byte("<html>bad gateway</html>"))
	assert.Equal(t, domainauth.ErrInternal, got.Kind)

	got = classifyProviderError(http.StatusBadRequest, []byte("not json"))
	assert.Equal(t, domainauth.ErrUnknown, got.Kind)
}

func TestServiceTokenSource_FreshPerCall(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(authResponse{
			LocalID: "svc", Email: "svc@example.com",
			IDToken: fmt.Sprintf("tok-%d", calls), ExpiresIn: "3600",
		})
	}))

	src, err := NewServiceTokenSource(client, "svc@example.com", "svc-password")
	require.NoError(t, err)

	tok1, err := src.Token(context.Background())
	require.NoError(t, err)
	tok2, err := src.Token(context.Background())
	require.NoError(t, err)

	// No caching: every call hits the provider.
	assert.Equal(t, "tok-1", tok1)
	assert.Equal(t, "tok-2", tok2)
	assert.Equal(t, 2, calls)
}

func TestServiceTokenSource_Validation(t *testing.T) {
	_, err := NewServiceTokenSource(nil, "a@b.c", "pw")
	require.Error(t, err)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	_, err = NewServiceTokenSource(client, "", "pw")
	require.Error(t, err)
}
