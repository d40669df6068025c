package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/providers"
)

// Config controls how the client reaches the upstream score API.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// StatusError reports a non-success upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client fetches scores from GET {base}/events/{eventId}/score.
type Client struct {
	baseURL    string
	httpClient httpDoer
}

// NewClient constructs an upstream client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

// Name identifies the client in metrics and logs.
func (c *Client) Name() string {
	return sourceName
}

// FetchScore retrieves the current score for eventID.
func (c *Client) FetchScore(ctx context.Context, eventID string) (events.ScoreData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.scoreURL(eventID), nil)
	if err != nil {
		return events.ScoreData{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return events.ScoreData{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return events.ScoreData{}, &providers.RateLimitError{
			Source:     sourceName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return events.ScoreData{}, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload events.ScoreData
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return events.ScoreData{}, providers.ErrEmptyScore
		}
		return events.ScoreData{}, fmt.Errorf("upstream: decode score: %w", err)
	}
	return providers.Validate(eventID, payload)
}

func (c *Client) scoreURL(eventID string) string {
	return c.baseURL + "/events/" + url.PathEscape(eventID) + "/score"
}
