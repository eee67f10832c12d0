// Package distancematrix is a client for a Google Distance Matrix compatible
// REST API. One call sends a single origin and a batch of destinations and
// returns one element per destination, in request order.
package distancematrix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"policeapp/internal/domain/entities"
	"policeapp/internal/metrics"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

	StatusOK = "OK"
)

// TextValue is a provider measurement. Value is metres for distance and
// seconds for duration.
type TextValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type Element struct {
	Status   string     `json:"status"`
	Distance *TextValue `json:"distance,omitempty"`
	Duration *TextValue `json:"duration,omitempty"`
}

type Row struct {
	Elements []Element `json:"elements"`
}

type Response struct {
	Status               string   `json:"status"`
	ErrorMessage         string   `json:"error_message,omitempty"`
	OriginAddresses      []string `json:"origin_addresses"`
	DestinationAddresses []string `json:"destination_addresses"`
	Rows                 []Row    `json:"rows"`
}

// Config selects the endpoint and routing options.
type Config struct {
	BaseURL string
	APIKey  string
	Mode    string // driving, walking, bicycling, transit
	Units   string // metric, imperial
}

// Client calls the provider. A single attempt is made per call; retries are
// left to the caller.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// NewClient returns a Client. A nil httpClient selects a client with a 10s
// timeout; per-call deadlines come from the context.
func NewClient(cfg Config, httpClient *http.Client, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Mode == "" {
		cfg.Mode = "driving"
	}
	if cfg.Units == "" {
		cfg.Units = "metric"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{cfg: cfg, http: httpClient, log: log}
}

// Matrix queries travel distance and time from origin to every destination.
// A non-"OK" top-level status is returned as *ProviderError together with the
// decoded response; element statuses are left for the caller to interpret.
func (c *Client) Matrix(ctx context.Context, origin entities.Location, destinations []entities.Location) (*Response, error) {
	u, err := c.buildURL(origin, destinations)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	t0 := time.Now()
	metrics.MatrixRequestsTotal.Inc()
	c.log.Debug("distance_matrix_request",
		zap.Int("destinations", len(destinations)),
		zap.String("mode", c.cfg.Mode),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			metrics.MatrixFailTotal.WithLabelValues("timeout").Inc()
			c.log.Warn("distance_matrix_timeout", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		metrics.MatrixFailTotal.WithLabelValues("transport").Inc()
		c.log.Error("distance_matrix_http_error", zap.Error(err))
		return nil, &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.MatrixFailTotal.WithLabelValues("http_status").Inc()
		c.log.Error("distance_matrix_http_status", zap.Int("status", resp.StatusCode))
		return nil, &ProviderError{HTTPStatus: resp.StatusCode}
	}

	var r Response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		if isTimeout(ctx, err) {
			metrics.MatrixFailTotal.WithLabelValues("timeout").Inc()
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		metrics.MatrixFailTotal.WithLabelValues("decode").Inc()
		c.log.Error("distance_matrix_decode_error", zap.Error(err))
		return nil, &ParseError{Err: err}
	}

	dur := time.Since(t0)
	metrics.MatrixDurationMs.Observe(float64(dur.Milliseconds()))
	c.log.Debug("distance_matrix_response",
		zap.String("status", r.Status),
		zap.Int("rows", len(r.Rows)),
		zap.Duration("duration", dur),
	)

	if r.Status != StatusOK {
		metrics.MatrixFailTotal.WithLabelValues("status").Inc()
		c.log.Warn("distance_matrix_status",
			zap.String("status", r.Status),
			zap.String("error_message", r.ErrorMessage),
		)
		return &r, &ProviderError{Status: r.Status, Message: r.ErrorMessage, HTTPStatus: resp.StatusCode}
	}
	return &r, nil
}

func (c *Client) buildURL(origin entities.Location, destinations []entities.Location) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", err
	}
	dests := make([]string, len(destinations))
	for i, d := range destinations {
		dests[i] = formatLatLon(d)
	}

	q := base.Query()
	q.Set("origins", formatLatLon(origin))
	q.Set("destinations", strings.Join(dests, "|"))
	q.Set("mode", c.cfg.Mode)
	q.Set("units", c.cfg.Units)
	if c.cfg.APIKey != "" {
		q.Set("key", c.cfg.APIKey)
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}

func formatLatLon(l entities.Location) string {
	return strconv.FormatFloat(l.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
