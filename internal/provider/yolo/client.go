package yolo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	ErrYOLOUnavailable = errors.New("yolo service unavailable")
	ErrInvalidResponse = errors.New("invalid response from yolo")
)

// Config holds the configuration for the YOLO detection client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8500",
		Timeout: 30 * time.Second,
	}
}

// Client is the HTTP client for the YOLO detection server
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new YOLO client
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// DetectRequest is the request body for POST /detect
type DetectRequest struct {
	ImageBase64 string  `json:"image_base64"`
	Confidence  float64 `json:"confidence"`
}

// DetectionResult is one detection in the response, box as [x1, y1, x2, y2]
type DetectionResult struct {
	Box        [4]float64 `json:"box"`
	Label      string     `json:"label"`
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
}

// DetectResponse is the response body for POST /detect
type DetectResponse struct {
	Detections []DetectionResult `json:"detections"`
	Error      string            `json:"error,omitempty"`
}

// Detect calls POST /detect to run object detection on the image
func (c *Client) Detect(ctx context.Context, imageBase64 string, confidence float64) (*DetectResponse, error) {
	reqBody := DetectRequest{
		ImageBase64: imageBase64,
		Confidence:  confidence,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.config.BaseURL + "/detect"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrYOLOUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("yolo returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result DetectResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &result, nil
}

// Ping probes the detection server's health endpoint. Used once at startup:
// a failed probe degrades the compliance checker to fail-closed instead of
// crashing the process.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.config.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrYOLOUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: health returned status %d", ErrYOLOUnavailable, resp.StatusCode)
	}

	return nil
}
