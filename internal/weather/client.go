// Package weather implements the HTTP client for the Open-Meteo geocoding
// and forecast services. Resolution is a two-step chain: city name →
// coordinates, then coordinates → first hourly temperature, humidity, and
// precipitation samples. Single attempt per call, no caching; the caller
// decides whether to persist results.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/indradhanu/indradhanu/internal/model"
)

const (
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// Client resolves city names to current weather snapshots.
type Client struct {
	geocodingURL string
	forecastURL  string
	httpClient   *http.Client
	debug        bool
}

// NewClient creates a Client. Empty URLs fall back to the public Open-Meteo
// endpoints. The timeout applies uniformly to both calls.
func NewClient(geocodingURL, forecastURL string, timeout time.Duration, debug bool) *Client {
	if geocodingURL == "" {
		geocodingURL = defaultGeocodingURL
	}
	if forecastURL == "" {
		forecastURL = defaultForecastURL
	}
	return &Client{
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		debug: debug,
	}
}

// location is the subset of a geocoding result the adapter needs.
type location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
}

// ResolveWeather resolves a city name to a current-conditions snapshot.
// Fails with model.ErrInvalidInput for an empty name, model.ErrCityNotFound
// when geocoding returns no results, model.ErrTimeout on deadline, and
// model.ErrNetwork on any other transport failure.
func (c *Client) ResolveWeather(ctx context.Context, city string) (*model.WeatherSnapshot, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city name is required", model.ErrInvalidInput)
	}

	loc, err := c.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	snap, err := c.forecast(ctx, loc)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// geocode queries the geocoding endpoint for the single best match by name.
func (c *Client) geocode(ctx context.Context, city string) (*location, error) {
	params := url.Values{}
	params.Set("name", city)
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")

	var raw struct {
		Results []location `json:"results"`
	}
	if err := c.get(ctx, c.geocodingURL, params, &raw); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", city, err)
	}
	if len(raw.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", model.ErrCityNotFound, city)
	}
	return &raw.Results[0], nil
}

// forecast fetches the hourly series for a location and takes the first
// (current) sample of each.
func (c *Client) forecast(ctx context.Context, loc *location) (*model.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	params.Set("hourly", "temperature_2m,relative_humidity_2m,precipitation")
	params.Set("current_weather", "true")

	var raw struct {
		Hourly struct {
			Temperature []float64 `json:"temperature_2m"`
			Humidity    []float64 `json:"relative_humidity_2m"`
			Rainfall    []float64 `json:"precipitation"`
		} `json:"hourly"`
	}
	if err := c.get(ctx, c.forecastURL, params, &raw); err != nil {
		return nil, fmt.Errorf("forecast for %q: %w", loc.Name, err)
	}
	if len(raw.Hourly.Temperature) == 0 || len(raw.Hourly.Humidity) == 0 || len(raw.Hourly.Rainfall) == 0 {
		return nil, fmt.Errorf("%w: forecast response missing hourly series", model.ErrNetwork)
	}

	return &model.WeatherSnapshot{
		City:        loc.Name,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		Country:     loc.Country,
		Temperature: raw.Hourly.Temperature[0],
		Humidity:    raw.Hourly.Humidity[0],
		Rainfall:    raw.Hourly.Rainfall[0],
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// get performs a single GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	reqURL := endpoint + "?" + params.Encode()
	if c.debug {
		slog.Debug("weather request", "url", reqURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "indradhanu-cli/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportErr(err)
	}

	if c.debug {
		slog.Debug("weather response", "status", resp.StatusCode, "bytes", len(body))
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d: %s", model.ErrNetwork, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", model.ErrNetwork, err)
	}
	return nil
}

// classifyTransportErr maps a transport failure to ErrTimeout or ErrNetwork,
// preserving the original message.
func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", model.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", model.ErrNetwork, err)
}
