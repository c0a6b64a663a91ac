package mobygames

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/grantgg11/gamegrinding/internal/config"
	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	// ErrTransport marks connection, timeout and non-2xx failures.
	ErrTransport = errors.New("mobygames: request failed")
	// ErrDecode marks responses that could not be parsed as the expected JSON.
	ErrDecode = errors.New("mobygames: unexpected response payload")
)

// errorCodeAPIFailure is the fixed sentinel written to the request log when a
// call fails.
const errorCodeAPIFailure = "API_REQUEST_FAILED"

// maskedKey replaces the api_key query value before a URL is logged or stored.
const maskedKey = "REDACTED"

// RequestLogger receives one record per outbound API call.
type RequestLogger interface {
	LogRequest(entry models.APIRequestLog) error
}

// Client wraps direct MobyGames API HTTP calls. Every request passes through
// the shared interval limiter and is reported to the request log sink with the
// API key masked.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *IntervalLimiter
	requests   RequestLogger
	logger     *logrus.Logger
}

// NewClient creates a new MobyGames client
func NewClient(cfg *config.Config, requests RequestLogger, logger *logrus.Logger) (*Client, error) {
	if cfg.MobyGamesURL == "" {
		return nil, fmt.Errorf("mobygames URL is required")
	}
	if cfg.MobyGamesAPIKey == "" {
		return nil, fmt.Errorf("mobygames API key is required")
	}

	return &Client{
		baseURL: cfg.MobyGamesURL,
		apiKey:  cfg.MobyGamesAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:  NewIntervalLimiter(cfg.RequestInterval),
		requests: requests,
		logger:   logger,
	}, nil
}

// SearchGames performs a title search and returns the raw result list.
func (c *Client) SearchGames(ctx context.Context, userID uint64, query string) ([]GameRecord, error) {
	endpoint := fmt.Sprintf("%s/games?title=%s&api_key=%s", c.baseURL, url.QueryEscape(query), url.QueryEscape(c.apiKey))

	body, err := c.fetchJSON(ctx, userID, endpoint)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return response.Games, nil
}

// GetGame fetches the detail record for one game.
func (c *Client) GetGame(ctx context.Context, userID uint64, gameID int) (GameRecord, error) {
	endpoint := fmt.Sprintf("%s/games/%d?api_key=%s", c.baseURL, gameID, url.QueryEscape(c.apiKey))

	body, err := c.fetchJSON(ctx, userID, endpoint)
	if err != nil {
		return GameRecord{}, err
	}

	var record GameRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return GameRecord{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return record, nil
}

// GetGamePlatforms fetches the platform list for one game.
func (c *Client) GetGamePlatforms(ctx context.Context, userID uint64, gameID int) ([]platformRecord, error) {
	endpoint := fmt.Sprintf("%s/games/%d/platforms?api_key=%s", c.baseURL, gameID, url.QueryEscape(c.apiKey))

	body, err := c.fetchJSON(ctx, userID, endpoint)
	if err != nil {
		return nil, err
	}

	var response platformListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return response.Platforms, nil
}

// GetPlatformDetail fetches the release metadata for one game/platform pair.
func (c *Client) GetPlatformDetail(ctx context.Context, userID uint64, gameID, platformID int) (platformDetailRecord, error) {
	endpoint := fmt.Sprintf("%s/games/%d/platforms/%d?api_key=%s", c.baseURL, gameID, platformID, url.QueryEscape(c.apiKey))

	body, err := c.fetchJSON(ctx, userID, endpoint)
	if err != nil {
		return platformDetailRecord{}, err
	}

	var record platformDetailRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return platformDetailRecord{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return record, nil
}

// fetchJSON issues one rate-limited GET and returns the raw response body.
// Every call produces a request log record, success or not.
func (c *Client) fetchJSON(ctx context.Context, userID uint64, rawURL string) ([]byte, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	sanitized := sanitizeURL(rawURL)
	start := time.Now()

	body, err := c.doGet(ctx, rawURL)
	elapsed := time.Since(start).Milliseconds()

	entry := models.APIRequestLog{
		UserID:    userID,
		URL:       sanitized,
		ElapsedMS: elapsed,
		Status:    models.RequestSuccess,
		Timestamp: time.Now(),
	}
	if err != nil {
		entry.Status = models.RequestFailed
		entry.ErrorCode = errorCodeAPIFailure
	}
	if logErr := c.requests.LogRequest(entry); logErr != nil {
		c.logger.WithError(logErr).Error("Failed to persist API request log")
	}

	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"url":        sanitized,
			"elapsed_ms": elapsed,
		}).WithError(err).Error("MobyGames request failed")
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"url":        sanitized,
		"elapsed_ms": elapsed,
		"size_bytes": len(body),
	}).Debug("MobyGames request completed")

	return body, nil
}

func (c *Client) doGet(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	req.Header.Set("User-Agent", "gamegrinding/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return body, nil
}

// sanitizeURL masks the api_key query value. Masking here is a security
// requirement, not telemetry polish; the key must never reach the log sink.
func sanitizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return maskedKey
	}

	query := parsed.Query()
	if query.Has("api_key") {
		query.Set("api_key", maskedKey)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}
