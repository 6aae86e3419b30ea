package scoring

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

// HTTPConfig configures a remote similarity service
type HTTPConfig struct {
	// URL receives POST {"text1","text2"} and answers {"similarity": float}
	URL     string
	Timeout time.Duration
}

// HTTPScorer delegates scoring to an external service, e.g. an embedding model
type HTTPScorer struct {
	url        string
	httpClient *http.Client
}

type httpScoreRequest struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

type httpScoreResponse struct {
	Similarity *float64 `json:"similarity"`
}

// NewHTTPScorer creates an HTTPScorer
func NewHTTPScorer(cfg HTTPConfig) (*HTTPScorer, error) {
	if cfg.URL == "" {
		return nil, errors.New("http scorer requires a URL")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPScorer{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Similarity posts both texts to the remote service
func (s *HTTPScorer) Similarity(ctx context.Context, text1, text2 string) (float64, error) {
	body, err := json.Marshal(httpScoreRequest{Text1: text1, Text2: text2})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("scorer returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var result httpScoreResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Similarity == nil {
		return 0, errors.New("scorer response has no similarity")
	}

	return clamp(*result.Similarity), nil
}
