// Package predict implements the HTTP client for the external crop
// prediction service. The service is an opaque black box: one POST with the
// 7-parameter condition vector, one JSON prediction back. Calls are
// context-aware and respect a shared rate limiter; there is no retry — a
// failed prediction is surfaced immediately to the user action that caused
// it.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/indradhanu/indradhanu/internal/model"
)

const defaultBaseURL = "https://crop-recommendation-api-vudg.onrender.com"

// Client is the prediction API HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	debug      bool
}

// NewClient creates a Client with the given base URL, timeout, and request
// rate. An empty base URL falls back to the hosted service.
func NewClient(baseURL string, timeout time.Duration, ratePerSec float64, debug bool) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
		debug:   debug,
	}
}

// Predict submits farm conditions and returns the primary crop prediction.
// Non-2xx responses and success=false payloads yield model.ErrPredictionFailed;
// transport failures yield model.ErrNetwork or model.ErrTimeout.
func (c *Client) Predict(ctx context.Context, cond model.FarmConditions) (*model.CropPrediction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cond)
	if err != nil {
		return nil, fmt.Errorf("encoding conditions: %w", err)
	}

	reqURL := c.baseURL + "/predict"
	if c.debug {
		slog.Debug("prediction request", "url", reqURL, "body", string(payload))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "indradhanu-cli/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", model.ErrTimeout, err)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: %v", model.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", model.ErrNetwork, err)
	}

	if c.debug {
		slog.Debug("prediction response", "status", resp.StatusCode, "bytes", len(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", model.ErrPredictionFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw struct {
		Success          bool    `json:"success"`
		Crop             string  `json:"crop"`
		Confidence       float64 `json:"confidence"`
		YieldKgPerHa     float64 `json:"yield_kg_per_hectare"`
		PricePerQuintal  float64 `json:"price_per_quintal"`
		EstimatedRevenue float64 `json:"estimated_revenue"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", model.ErrPredictionFailed, err)
	}
	if !raw.Success {
		return nil, fmt.Errorf("%w: service reported failure", model.ErrPredictionFailed)
	}

	return &model.CropPrediction{
		Crop:             raw.Crop,
		Confidence:       raw.Confidence,
		YieldKgPerHa:     raw.YieldKgPerHa,
		PricePerQuintal:  raw.PricePerQuintal,
		EstimatedRevenue: raw.EstimatedRevenue,
	}, nil
}
