package ipma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/migcruzz/Ipma-Expert/internal/models"
	"github.com/migcruzz/Ipma-Expert/internal/observability"
)

// DataSource is the slice of the IPMA open-data API the chat pipeline needs.
type DataSource interface {
	Locations(ctx context.Context) ([]models.Location, error)
	DailyForecast(ctx context.Context, globalID int) ([]models.ForecastDay, error)
	WeatherTypes(ctx context.Context) ([]models.WeatherType, error)
	PrecipitationClasses(ctx context.Context) ([]models.PrecipClass, error)
	FetchBundle(ctx context.Context, globalID int) (Bundle, error)
}

// ErrUpstreamFailure marks any non-success response or transport failure from
// the IPMA API. The pipeline fails the whole request on it; there is no retry
// and no partial-result mode.
var ErrUpstreamFailure = errors.New("ipma upstream failure")

const (
	locationsPath     = "/distrits-islands.json"
	weatherTypesPath  = "/weather-type-classe.json"
	precipClassesPath = "/precipitation-classe.json"
)

// Client fetches IPMA open-data feeds over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewClient returns a Client for the given base URL (no trailing slash).
// timeout bounds each individual fetch.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("ipma: base URL is required")
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// envelope is the {"data": [...]} wrapper all IPMA list feeds share.
type envelope[T any] struct {
	Data []T `json:"data"`
}

func getJSON[T any](c *Client, ctx context.Context, path, endpoint string) ([]T, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		observability.IPMACallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if corrID := observability.CorrelationIDFromContext(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.IPMACallsTotal.WithLabelValues(endpoint, "error").Inc()
		observability.IPMADuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamFailure, endpoint, err)
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	observability.IPMACallsTotal.WithLabelValues(endpoint, status).Inc()
	observability.IPMADuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: HTTP %d", ErrUpstreamFailure, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: parse response: %v", ErrUpstreamFailure, endpoint, err)
	}
	return env.Data, nil
}

// rawLocation matches the directory feed, where coordinates arrive as strings.
type rawLocation struct {
	Local         string            `json:"local"`
	GlobalIDLocal int               `json:"globalIdLocal"`
	Latitude      models.FlexString `json:"latitude"`
	Longitude     models.FlexString `json:"longitude"`
}

// Locations fetches the district/island directory.
func (c *Client) Locations(ctx context.Context) ([]models.Location, error) {
	raw, err := getJSON[rawLocation](c, ctx, locationsPath, "locations")
	if err != nil {
		return nil, err
	}
	locs := make([]models.Location, 0, len(raw))
	for _, r := range raw {
		locs = append(locs, models.Location{
			GlobalID:  r.GlobalIDLocal,
			Name:      r.Local,
			Latitude:  r.Latitude.Float(),
			Longitude: r.Longitude.Float(),
		})
	}
	return locs, nil
}

// DailyForecast fetches the daily forecast records for one location.
func (c *Client) DailyForecast(ctx context.Context, globalID int) ([]models.ForecastDay, error) {
	path := fmt.Sprintf("/forecast/meteorology/cities/daily/%d.json", globalID)
	return getJSON[models.ForecastDay](c, ctx, path, "forecast")
}

// WeatherTypes fetches the weather-type classification table.
func (c *Client) WeatherTypes(ctx context.Context) ([]models.WeatherType, error) {
	return getJSON[models.WeatherType](c, ctx, weatherTypesPath, "weather_types")
}

// PrecipitationClasses fetches the precipitation-intensity classification table.
func (c *Client) PrecipitationClasses(ctx context.Context) ([]models.PrecipClass, error) {
	return getJSON[models.PrecipClass](c, ctx, precipClassesPath, "precipitation")
}

// Ping checks directory reachability for the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+locationsPath, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ping: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}
	return nil
}

func statusLabel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "success"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode >= 500:
		return "server_error"
	default:
		return "error"
	}
}
