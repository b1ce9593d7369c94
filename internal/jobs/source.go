package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned when the job-search API credential is absent.
var ErrNotConfigured = errors.New("job search API key not configured")

// Source is one external job-listing provider.
type Source interface {
	Name() string
	Search(ctx context.Context, params SearchParams) ([]NormalizedJob, error)
}

// rapidClient issues authenticated GET requests against RapidAPI hosts. All
// sources share one client so the outbound rate limit covers every call.
type rapidClient struct {
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newRapidClient(apiKey string, timeout time.Duration, ratePerSecond float64) *rapidClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if ratePerSecond <= 0 {
		ratePerSecond = 5
	}
	return &rapidClient{
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)+1),
	}
}

func (c *rapidClient) configured() bool {
	return c != nil && c.apiKey != ""
}

// get performs one rate-limited request and returns the body and status code.
// Transport failures return an error; HTTP error statuses do not.
func (c *rapidClient) get(ctx context.Context, host, path string, query url.Values) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	u := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     path,
		RawQuery: query.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("get %s%s: %w", host, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s%s: %w", host, path, err)
	}
	return body, resp.StatusCode, nil
}
