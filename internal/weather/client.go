package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dharmasatrya/flightdelays/internal/models"
	"github.com/dharmasatrya/flightdelays/pkg/logger"
)

var (
	ErrNotConfigured = errors.New("weather api key not configured")
	ErrUpstream      = errors.New("weather api error")
)

// Client queries an OpenWeather compatible historical endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(baseURL, apiKey string, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
	}
}

type timemachineResponse struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Data []struct {
		Dt         int64   `json:"dt"`
		Temp       float64 `json:"temp"`
		Humidity   int     `json:"humidity"`
		WindSpeed  float64 `json:"wind_speed"`
		Visibility int     `json:"visibility"`
		Weather    []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"data"`
}

func (c *Client) Conditions(ctx context.Context, lat, lon float64, timestamp int64) (*models.WeatherResponse, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("dt", strconv.FormatInt(timestamp, 10))
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)

	endpoint := c.baseURL + "/data/3.0/onecall/timemachine?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("weather api returned error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var parsed timemachineResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrUpstream, err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("%w: no data points", ErrUpstream)
	}

	point := parsed.Data[0]
	out := &models.WeatherResponse{
		Latitude:    lat,
		Longitude:   lon,
		Timestamp:   timestamp,
		Temperature: point.Temp,
		Humidity:    point.Humidity,
		WindSpeed:   point.WindSpeed,
		Visibility:  point.Visibility,
	}
	if len(point.Weather) > 0 {
		out.Condition = point.Weather[0].Main
		out.Description = point.Weather[0].Description
	}
	return out, nil
}
