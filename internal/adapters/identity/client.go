package identity

// Package identity is the REST adapter for the hosted identity provider's
// email/password surface: account creation, sign-in, email verification, and
// password change. Provider error codes are classified into domain AuthError
// kinds here; nothing above this layer inspects provider strings.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/ports"
)

// Config holds configuration for the identity client.
type Config struct {
	BaseURL    string // e.g. https://identity.example.com/v1
	APIKey     string // appended as ?key= on every call
	HTTPClient *http.Client

	// SessionDuration caps the session length when the provider reports a
	// longer token expiry. Zero means "trust the provider".
	SessionDuration time.Duration
}

// Client implements ports.PasswordAuthenticator against the provider's REST API.
type Client struct {
	baseURL         string
	apiKey          string
	httpClient      *http.Client
	sessionDuration time.Duration
}

var _ ports.PasswordAuthenticator = (*Client)(nil)

// NewClient creates an identity client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("identity: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("identity: API key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		httpClient:      httpClient,
		sessionDuration: cfg.SessionDuration,
	}, nil
}

// authResponse is the provider payload shared by sign-up and sign-in.
type authResponse struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	PhotoURL      string `json:"photoUrl"`
	EmailVerified bool   `json:"emailVerified"`
	IDToken       string `json:"idToken"`
	ExpiresIn     string `json:"expiresIn"` // seconds, as a string
}

func (c *Client) SignUp(ctx context.Context, in ports.SignUpInput) (domainauth.Identity, error) {
	body := map[string]any{
		"email":             in.Email,
		"password":          in.Password,
		"displayName":       in.DisplayName,
		"returnSecureToken": true,
	}
	var resp authResponse
	if err := c.post(ctx, "accounts:signUp", body, &resp); err != nil {
		return domainauth.Identity{}, err
	}
	identity := c.identityFrom(resp)
	if identity.DisplayName == "" {
		identity.DisplayName = in.DisplayName
	}
	return identity, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (domainauth.Identity, error) {
	resp, err := c.signInRaw(ctx, email, password)
	if err != nil {
		return domainauth.Identity{}, err
	}
	return c.identityFrom(resp), nil
}

func (c *Client) SendVerificationEmail(ctx context.Context, email string) error {
	body := map[string]any{
		"requestType": "VERIFY_EMAIL",
		"email":       email,
	}
	return c.post(ctx, "accounts:sendOobCode", body, nil)
}

func (c *Client) ConfirmVerification(ctx context.Context, code string) error {
	body := map[string]any{"oobCode": code}
	return c.post(ctx, "accounts:update", body, nil)
}

// ChangePassword re-authenticates with the current password, then sets the
// new one with the fresh token. A stale or wrong current password surfaces as
// the wrong-password kind, same as sign-in.
func (c *Client) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	resp, err := c.signInRaw(ctx, in.Email, in.CurrentPassword)
	if err != nil {
		return err
	}
	body := map[string]any{
		"idToken":           resp.IDToken,
		"password":          in.NewPassword,
		"returnSecureToken": false,
	}
	return c.post(ctx, "accounts:update", body, nil)
}

func (c *Client) signInRaw(ctx context.Context, email, password string) (authResponse, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var resp authResponse
	if err := c.post(ctx, "accounts:signInWithPassword", body, &resp); err != nil {
		return authResponse{}, err
	}
	return resp, nil
}

func (c *Client) identityFrom(resp authResponse) domainauth.Identity {
	expiresAt := time.Now().Add(time.Hour)
	if secs, err := strconv.Atoi(resp.ExpiresIn); err == nil && secs > 0 {
		expiresAt = time.Now().Add(time.Duration(secs) * time.Second)
	}
	if c.sessionDuration > 0 && time.Until(expiresAt) > c.sessionDuration {
		expiresAt = time.Now().Add(c.sessionDuration)
	}
	return domainauth.Identity{
		UserID:        resp.LocalID,
		Email:         resp.Email,
		DisplayName:   resp.DisplayName,
		AvatarURL:     resp.PhotoURL,
		EmailVerified: resp.EmailVerified,
		ExpiresAt:     expiresAt,
	}
}

// providerError is the provider's error envelope: {"error":{"message":"CODE"}}.
type providerError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	url := c.baseURL + "/" + endpoint + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainauth.NewAuthError(domainauth.ErrNetworkFailure, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domainauth.NewAuthError(domainauth.ErrNetworkFailure, err.Error())
	}

	if resp.StatusCode >= 400 {
		return classifyProviderError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
	}
	return nil
}

// classifyProviderError maps provider error codes onto domain AuthError kinds.
func classifyProviderError(status int, body []byte) *domainauth.AuthError {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err != nil || pe.Error.Message == "" {
		if status >= 500 {
			return domainauth.NewAuthError(domainauth.ErrInternal, strings.TrimSpace(string(body)))
		}
		return domainauth.NewAuthError(domainauth.ErrUnknown, strings.TrimSpace(string(body)))
	}

	// Codes can carry a suffix, e.g. "WEAK_PASSWORD : Password should be ...".
	code, _, _ := strings.Cut(pe.Error.Message, " ")
	switch code {
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return domainauth.NewAuthError(domainauth.ErrInvalidEmail, pe.Error.Message)
	case "USER_DISABLED":
		return domainauth.NewAuthError(domainauth.ErrUserDisabled, pe.Error.Message)
	case "EMAIL_NOT_FOUND":
		return domainauth.NewAuthError(domainauth.ErrUserNotFound, pe.Error.Message)
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return domainauth.NewAuthError(domainauth.ErrWrongPassword, pe.Error.Message)
	case "EMAIL_EXISTS":
		return domainauth.NewAuthError(domainauth.ErrEmailInUse, pe.Error.Message)
	case "OPERATION_NOT_ALLOWED", "PASSWORD_LOGIN_DISABLED":
		return domainauth.NewAuthError(domainauth.ErrOperationNotAllowed, pe.Error.Message)
	case "WEAK_PASSWORD":
		return domainauth.NewAuthError(domainauth.ErrWeakPassword, pe.Error.Message)
	default:
		return domainauth.NewAuthError(domainauth.ErrUnknown, pe.Error.Message)
	}
}
