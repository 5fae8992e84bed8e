package oura

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.ouraring.com"

	heartRatePath = "/v2/usercollection/heartrate"
	sleepPath     = "/v2/usercollection/sleep"

	dateLayout = "2006-01-02"
)

// ClientOptions tunes the HTTP behaviour of Client.
type ClientOptions struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Client talks to the Oura v2 usercollection API.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient creates a Client. Zero option values fall back to defaults.
func NewClient(opts ClientOptions, logger *zap.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryCount < 0 {
		opts.RetryCount = 0
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// FetchHeartRate returns the heart-rate samples of [start, end].
func (c *Client) FetchHeartRate(ctx context.Context, accessToken string, start, end time.Time) (*Response[HeartRateSample], error) {
	var result Response[HeartRateSample]
	query := map[string]string{
		"start_datetime": start.UTC().Format(time.RFC3339),
		"end_datetime":   end.UTC().Format(time.RFC3339),
	}
	if err := c.get(ctx, accessToken, heartRatePath, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchSleepDocuments returns the sleep documents whose day lies between the
// dates of start and end.
func (c *Client) FetchSleepDocuments(ctx context.Context, accessToken string, start, end time.Time) (*Response[SleepDocument], error) {
	var result Response[SleepDocument]
	query := map[string]string{
		"start_date": start.UTC().Format(dateLayout),
		"end_date":   end.UTC().Format(dateLayout),
	}
	if err := c.get(ctx, accessToken, sleepPath, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, accessToken, path string, query map[string]string, result interface{}) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParams(query).
		SetResult(result).
		Get(path)

	if err != nil {
		c.logger.Error("Oura API call failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return &APIError{URL: path, Err: err}
	}

	if resp.IsError() {
		c.logger.Warn("Oura API returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return &APIError{
			URL:        resp.Request.URL,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	c.logger.Debug("Oura API call succeeded",
		zap.String("path", path),
		zap.Duration("elapsed", resp.Time()),
	)
	return nil
}
