// Package metrics is a client for the portfolio metrics store's REST
// filter-query interface.
package metrics

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Record is one portfolio-segment observation as served by the store.
type Record struct {
	CountryCode      string  `json:"country_code"`
	ReportingMonth   string  `json:"reporting_month"`
	GroupType        string  `json:"group_type"`
	GroupName        string  `json:"group_name"`
	Currency         string  `json:"currency"`
	ContractCount    int     `json:"contract_count"`
	WeightedIRR      float64 `json:"weighted_irr_nominal"`
	NBVLocal         float64 `json:"nbv_local"`
	NBVGroup         float64 `json:"nbv_group"`
	GrossExposure    float64 `json:"gross_exposure"`
	DelinquentAmount float64 `json:"delinquent_amount"`
	Downpayment      float64 `json:"downpayment"`
}

// FilterQuery selects records by country and reporting month, with an
// optional group-type filter.
type FilterQuery struct {
	Country   string
	Month     string
	GroupType string
}

// Client fetches metric records from the store.
type Client interface {
	FetchRecords(ctx context.Context, q FilterQuery) ([]Record, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithMaxRetries overrides the retry count for 429/5xx responses.
func WithMaxRetries(n int) Option {
	return func(c *httpClient) {
		c.maxRetries = n
	}
}

// WithRateLimit overrides the outbound request rate.
func WithRateLimit(perSecond float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

type httpClient struct {
	baseURL    string
	apiKey     string
	maxRetries int
	limiter    *rate.Limiter
	http       *http.Client
}

// NewClient creates a metrics store client.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		maxRetries: 3,
		limiter:    rate.NewLimiter(10, 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchRecords performs GET /api/metrics with the filter query.
func (c *httpClient) FetchRecords(ctx context.Context, q FilterQuery) ([]Record, error) {
	if q.Country == "" {
		return nil, eris.New("metrics: country is required")
	}
	if q.Month == "" {
		return nil, eris.New("metrics: month is required")
	}

	u, err := url.Parse(c.baseURL + "/api/metrics")
	if err != nil {
		return nil, eris.Wrap(err, "metrics: parse base url")
	}
	params := u.Query()
	params.Set("country", q.Country)
	params.Set("month", q.Month)
	if q.GroupType != "" {
		params.Set("group_type", q.GroupType)
	}
	u.RawQuery = params.Encode()

	body, err := c.getWithRetry(ctx, u.String())
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, eris.Wrap(err, "metrics: decode records")
	}

	zap.L().Debug("metrics records fetched",
		zap.String("country", q.Country),
		zap.String("month", q.Month),
		zap.Int("records", len(records)),
	)
	return records, nil
}

func (c *httpClient) getWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "metrics: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "metrics: create request")
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			zap.L().Warn("metrics request failed, retrying",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("metrics: http %d from %s", resp.StatusCode, rawURL)
			zap.L().Warn("metrics store unavailable, retrying",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, eris.Errorf("metrics: unexpected status %d from %s", resp.StatusCode, rawURL)
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, eris.Wrap(err, "metrics: read body")
		}
		return body, nil
	}

	return nil, eris.Wrap(lastErr, "metrics: all retries exhausted")
}

func (c *httpClient) backoff(ctx context.Context, attempt int) {
	d := time.Duration(float64(500*time.Millisecond) * math.Pow(2, float64(attempt)))
	if d > 10*time.Second {
		d = 10 * time.Second
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
