package deepface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the connection settings for the DeepFace embedding server.
// Model and Detector are part of the deployment contract: stored vectors
// are only comparable to query vectors produced by the same model.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Model      string
	Detector   string
	RetryCount int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:9000",
		Timeout:    30 * time.Second,
		Model:      "ArcFace",
		Detector:   "opencv",
		RetryCount: 3,
	}
}

// Client is the HTTP client for the DeepFace embedding server
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new DeepFace client
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// Represent calls POST /represent to generate a face embedding.
func (c *Client) Represent(ctx context.Context, imageBase64 string, enforceDetection bool) (*RepresentResponse, error) {
	req := RepresentRequest{
		Img:              imageBase64,
		Model:            c.config.Model,
		Detector:         c.config.Detector,
		EnforceDetection: enforceDetection,
	}

	var resp RepresentResponse
	if err := c.post(ctx, "/represent", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

const maxBackoff = 30 * time.Second

// backoff returns the wait before the given retry attempt: 1s, 2s, 4s and
// so on, leveling off at 32s before the maxBackoff clamp.
func backoff(attempt int) time.Duration {
	if attempt < 1 {
		return time.Second
	}
	shift := attempt - 1
	if shift > 5 {
		shift = 5
	}
	return time.Duration(1<<shift) * time.Second
}

// post sends one JSON request, retrying on server-side failures. Client
// errors (4xx) are terminal: the request will not get better by repeating
// it, and "no face detected" responses must reach the caller untouched.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			wait := backoff(attempt)
			if wait > maxBackoff {
				wait = maxBackoff
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		lastErr = c.send(ctx, path, body, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if isClientError(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("%w: %v", ErrDeepFaceUnavailable, lastErr)
}

// isClientError reports whether the error came from a 4xx response.
func isClientError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for status := 400; status < 500; status++ {
		if strings.Contains(msg, fmt.Sprintf("status %d", status)) {
			return true
		}
	}
	return false
}

func (c *Client) send(ctx context.Context, path string, body, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("deepface returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}
