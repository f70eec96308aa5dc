package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"salonova/utils"
)

// TokenSource supplies the current bearer token. It is read on every call,
// never captured at construction time, so a login or logout between calls
// takes effect immediately.
type TokenSource interface {
	Token() string
}

// Client is the authenticated HTTP transport shared by every store.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter

	// onSessionExpired is invoked once per 403 response, before the call
	// returns ErrSessionExpired.
	onSessionExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.http = hc }
}

// WithRateLimit caps outgoing requests per minute.
func WithRateLimit(perMinute int) Option {
	return func(cl *Client) {
		if perMinute > 0 {
			cl.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		}
	}
}

// NewClient builds a transport rooted at baseURL. onSessionExpired is called
// whenever the backend answers 403.
func NewClient(baseURL string, tokens TokenSource, onSessionExpired func(), opts ...Option) *Client {
	cl := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		http:             &http.Client{},
		tokens:           tokens,
		onSessionExpired: onSessionExpired,
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Login exchanges credentials for a bearer token. It is the one call that
// goes out unauthenticated.
func (cl *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cl.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", cl.errorFromResponse(resp)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	return out.Token, nil
}

// Do issues an authenticated request and decodes a JSON response into out
// (out may be nil when the body is irrelevant). query may be nil.
func (cl *Client) Do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	logger := utils.GetLogger()

	token := cl.tokens.Token()
	if token == "" {
		return ErrNoSession
	}

	if cl.limiter != nil {
		if err := cl.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	u := cl.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := cl.http.Do(req)
	if err != nil {
		logger.Warn("Request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		logger.Warn("Session rejected by backend", zap.String("path", path))
		if cl.onSessionExpired != nil {
			cl.onSessionExpired()
		}
		return ErrSessionExpired
	}
	if resp.StatusCode == http.StatusConflict {
		return ErrConflict
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return cl.errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (cl *Client) errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
