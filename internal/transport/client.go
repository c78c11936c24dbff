package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/eventroster/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/clientcredentials"
)

const RequestIdHeader = "X-Request-Id"

var ErrNotFound = errors.New("resource not found")

// StatusError is returned when the backend answers with an unexpected status code.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d for %s %s", e.StatusCode, e.Method, e.Path)
}

type contextKey string

const requestIdKey contextKey = "requestId"

func WithRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKey, requestId)
}

// RequestId returns the request id stored in ctx, or an empty string.
func RequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey).(string)
	return id
}

// Client performs JSON requests against the backend base URL.
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

func NewClient(baseUrl string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseUrl: baseUrl, httpClient: httpClient}
}

// NewClientFromConfig builds a Client whose HTTP client honours the configured timeout and,
// when OAuth credentials are present, authenticates every request with client-credentials tokens.
func NewClientFromConfig(ctx context.Context, cfg config.Backend) *Client {
	var httpClient *http.Client
	if cfg.OAuth.Enabled() {
		cc := clientcredentials.Config{
			ClientID:     cfg.OAuth.ClientId,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.OAuth.TokenUrl,
			Scopes:       cfg.OAuth.Scopes,
		}
		httpClient = cc.Client(ctx)
		log.Debugf("Backend requests authenticated with client credentials (client id %s)", cfg.OAuth.ClientId)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.Timeout
	return NewClient(cfg.BaseUrl, httpClient)
}

// Do sends body (if not nil) as JSON and decodes a JSON response into out (if not nil).
// A 404 maps to ErrNotFound, any other non-2xx status to *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, reader)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestId := RequestId(ctx)
	if requestId == "" {
		requestId = uuid.NewString()
	}
	req.Header.Set(RequestIdHeader, requestId)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request %s %s: %v", method, path, err)
		return err
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"method":    method,
		"path":      path,
		"status":    resp.StatusCode,
		"duration":  time.Since(start),
		"requestId": requestId,
	}).Debug("Backend request completed")

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
		log.Error(err)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
