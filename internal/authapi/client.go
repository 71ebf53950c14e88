// Package authapi is the HTTP client for the TaskFlow authentication API.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/manav03panchal/taskflow/internal/config"
	"github.com/manav03panchal/taskflow/internal/errors"
	"github.com/manav03panchal/taskflow/internal/logging"
)

// Endpoints, relative to the configured base URL.
const (
	EndpointLogin          = "/login"
	EndpointRegister       = "/register"
	EndpointForgotPassword = "/forgot-password"
	EndpointResetPassword  = "/reset-password"
	EndpointRefreshToken   = "/refresh-token"
	EndpointLogout         = "/logout"
)

// Fallback messages used when the API rejects a call without a message.
const (
	MsgLoginFailed    = "Login failed. Please check your credentials."
	MsgRegisterFailed = "Registration failed. Please try again."
	MsgGenericFailure = "Something went wrong"
)

const userAgent = "TaskFlow/1.0"

// Client talks to the authentication API. Calls are never retried.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client from API configuration.
func New(cfg config.APIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := loginRequest{Email: email, Password: password}
	var resp AuthResponse
	if err := c.post(ctx, EndpointLogin, "", req, &resp, MsgLoginFailed); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. Tokens in the response are optional.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, EndpointRegister, "", req, &resp, MsgRegisterFailed); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword asks the API to send a one-time reset code to email.
// Returns the server's confirmation message, if any.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, EndpointForgotPassword, "", forgotPasswordRequest{Email: email}, &resp, MsgGenericFailure); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ResetPassword sets a new password using the emailed one-time code.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, EndpointResetPassword, "", req, &resp, MsgGenericFailure); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var resp AuthResponse
	if err := c.post(ctx, EndpointRefreshToken, "", refreshRequest{RefreshToken: refreshToken}, &resp, MsgGenericFailure); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.NewAuthError(http.StatusOK, "refresh response did not include an access token")
	}
	return resp.AccessToken, nil
}

// Logout invalidates the access token server-side.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.post(ctx, EndpointLogout, accessToken, struct{}{}, nil, MsgGenericFailure)
}

func (c *Client) post(ctx context.Context, endpoint, bearer string, in, out any, fallback string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logging.RequestIDFromContext(ctx) == "" {
		ctx = logging.NewRequestContext(ctx)
	}
	logger := logging.LoggerFromContext(ctx).With(logging.KeyEndpoint, endpoint)
	start := time.Now()

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("auth request failed", logging.KeyError, logging.MaskString(err.Error()))
		return fmt.Errorf("%w: %v", errors.NewAuthError(0, fallback), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", errors.NewAuthError(resp.StatusCode, fallback), err)
	}

	logger.Debug("auth request",
		logging.KeyStatus, resp.StatusCode,
		logging.KeyDuration, time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewAuthError(resp.StatusCode, serverMessage(respBody, fallback))
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", errors.NewAuthError(resp.StatusCode, "unexpected response from "+endpoint), err)
	}
	return nil
}

// serverMessage extracts the "message" field of an error body.
func serverMessage(body []byte, fallback string) string {
	var m messageResponse
	if err := json.Unmarshal(body, &m); err != nil {
		return fallback
	}
	if msg := strings.TrimSpace(m.Message); msg != "" {
		return msg
	}
	return fallback
}
