// Package llm talks to a Hugging Face style text-generation endpoint.
package llm

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

	"golang.org/x/time/rate"

	"startup_journey/internal/config"
)

const (
	defaultBaseURL     = "https://api-inference.huggingface.co"
	defaultModel       = "mistralai/Mistral-7B-Instruct-v0.2"
	defaultTimeout     = 60 * time.Second
	defaultMaxRetries  = 3
	defaultBaseBackoff = 1 * time.Second
	defaultRateLimit   = 1.0
	defaultBurst       = 2

	// Upper bound on how long a "model is loading" answer may make us wait.
	maxLoadingWait = 20 * time.Second
)

var (
	ErrMissingAPIKey = errors.New("llm: api key required")
	ErrUnauthorized  = errors.New("llm: api key rejected")
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Parameters are the generation parameters sent with every request.
type Parameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generateRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

type Client struct {
	baseURL     string
	model       string
	apiKey      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
}

func New(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = defaultMaxRetries
	}

	return &Client{
		baseURL:     baseURL,
		model:       model,
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(limit), burst),
		maxRetries:  retries,
		baseBackoff: defaultBaseBackoff,
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt to the model and returns the generated text. Rate
// limiting is applied per call; network errors, 429, 5xx and "model is
// loading" answers are retried with exponential backoff.
func (c *Client) Generate(ctx context.Context, prompt string, params Parameters) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req := generateRequest{Inputs: prompt, Parameters: params}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.baseBackoff * time.Duration(1<<(attempt-1))
			var re *retryableError
			if errors.As(lastErr, &re) && re.wait > wait {
				wait = re.wait
			}
			slog.Debug("retrying llm request", "attempt", attempt, "wait", wait, "error", lastErr)

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := c.doRequest(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("llm: max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, req generateRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &retryableError{err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w (%d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &retryableError{err: fmt.Errorf("rate limited (429)")}
	case resp.StatusCode == http.StatusServiceUnavailable:
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		wait := min(time.Duration(apiErr.EstimatedTime*float64(time.Second)), maxLoadingWait)
		return "", &retryableError{err: fmt.Errorf("model unavailable (503): %s", apiErr.Error), wait: wait}
	case resp.StatusCode >= 500:
		return "", &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))}
	case resp.StatusCode != http.StatusOK:
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
			return "", fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("api error (%d): %s", resp.StatusCode, string(body))
	}

	return parseGeneration(body)
}

// parseGeneration accepts both the list form the inference API normally
// returns and a bare object.
func parseGeneration(body []byte) (string, error) {
	var list []generation
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return "", ErrEmptyResponse
		}
		return list[0].GeneratedText, nil
	}

	var single generation
	if err := json.Unmarshal(body, &single); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if single.GeneratedText == "" {
		return "", ErrEmptyResponse
	}
	return single.GeneratedText, nil
}

type retryableError struct {
	err  error
	wait time.Duration
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
