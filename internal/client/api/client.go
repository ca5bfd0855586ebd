// Package api holds the JSON-over-HTTP plumbing for talking to coursehub
// services and the CLI's client for the auth service.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx answer carrying the service error body.
type Error struct {
	Status  int
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s (code %d)", e.Status, e.Message, e.Code)
}

// TokenPair is the login response.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterRequest is the account to create.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	UserName string `json:"username"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
}

type Client interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, userName string, password []byte) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type HTTPClient struct {
	caller *Caller
}

// NewHTTPClient returns a client for the auth service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{caller: NewCaller(baseURL, timeout)}
}

// SetLocale sets the Accept-Language sent with every request.
func (c *HTTPClient) SetLocale(locale string) {
	c.caller.Locale = locale
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	return c.caller.Do(ctx, http.MethodPost, "/register", req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, userName string, password []byte) (*TokenPair, error) {
	req := struct {
		UserName string `json:"username"`
		Password string `json:"password"`
	}{userName, string(password)}

	var pair TokenPair
	if err := c.caller.Do(ctx, http.MethodPost, "/login", req, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	req := struct {
		RefreshToken string `json:"refreshToken"`
	}{refreshToken}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.caller.Do(ctx, http.MethodPost, "/refresh-token", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
