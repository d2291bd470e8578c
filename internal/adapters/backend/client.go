package backend

// Package backend is the typed client for the remote rental API, the source
// of truth for houses, reviews, users, and bookings. The front-end never
// caches its records; every screen fetch goes through here.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	jmespath "github.com/jmespath-community/go-jmespath"
	apperrors "github.com/rentora/rentora-ui/internal/errors"
	"github.com/rentora/rentora-ui/internal/ports"
)

// defaultErrorMessagePath extracts the server message from error bodies
// shaped like {"message": "..."}. Deployments fronted by gateways with other
// envelopes override it via config.
const defaultErrorMessagePath = "message"

// Config holds configuration for the remote API client.
type Config struct {
	BaseURL    string
	Tokens     ports.TokenSource
	HTTPClient *http.Client
	Logger     *slog.Logger

	// ErrorMessagePath is a JMESPath expression evaluated against error
	// response bodies to pull out the server-provided message.
	ErrorMessagePath string
}

// Client talks JSON over HTTP to the remote API. Request structs are
// validated before serialization; a validation failure never reaches the
// network. Every request carries a bearer token minted fresh by the token
// source.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     ports.TokenSource
	validate   *validator.Validate
	logger     *slog.Logger
	errPath    string
}

// NewClient creates a remote API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend: base URL is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("backend: token source is required")
	}
	errPath := cfg.ErrorMessagePath
	if errPath == "" {
		errPath = defaultErrorMessagePath
	}
	if _, err := jmespath.Compile(errPath); err != nil {
		return nil, fmt.Errorf("backend: invalid error message path %q: %w", errPath, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
		errPath:    errPath,
	}, nil
}

// do performs one request cycle: validate, serialize, attach a fresh token,
// send, and decode. Non-2xx responses come back as apperrors.Remote carrying
// the extracted server message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		if err := c.validate.Struct(body); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, validationMessage(err))
		}
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("obtain bearer token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeRemote, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeRemote, "read %s %s response", method, path)
	}

	if resp.StatusCode >= 400 {
		c.logger.WarnContext(ctx, "remote api call failed",
			"method", method, "path", path, "status", resp.StatusCode)
		return c.remoteError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// remoteError builds the error surfaced to handlers for a failed call. 404s
// become NotFound so screens can branch without inspecting status codes.
func (c *Client) remoteError(status int, body []byte) error {
	message := c.extractMessage(body)
	if status == http.StatusNotFound {
		if message == "" {
			message = "record not found"
		}
		return apperrors.NotFound(message)
	}
	if message == "" {
		message = fmt.Sprintf("the server rejected the request (status %d)", status)
	}
	return apperrors.Remote(status, message)
}

// extractMessage evaluates the configured JMESPath expression against the
// error body. A body that is not JSON, or a path that resolves to nothing,
// yields the generic fallback upstream.
func (c *Client) extractMessage(body []byte) string {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	result, err := jmespath.Search(c.errPath, doc)
	if err != nil {
		return ""
	}
	msg, ok := result.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(msg)
}

// validationMessage flattens the first field error into a short sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("field %s failed %s validation", fe.Field(), fe.Tag())
	}
	return "invalid request"
}
