package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pcastellanos/llm-workflows/internal/config"
	"github.com/pcastellanos/llm-workflows/internal/llm"
)

// WeatherClient calls the open-meteo forecast API.
type WeatherClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewWeatherClient(baseURL string, timeout time.Duration) *WeatherClient {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WeatherClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Current fetches the current weather block for a coordinate pair.
func (c *WeatherClient) Current(ctx context.Context, latitude, longitude float64) (map[string]any, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m,wind_speed_10m")
	q.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m")

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/v1/forecast?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building weather request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling weather API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading weather response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("weather API status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Current map[string]any `json:"current"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing weather response: %w", err)
	}
	if out.Current == nil {
		return nil, fmt.Errorf("weather response has no current block")
	}
	return out.Current, nil
}

type weatherArgs struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RegisterWeather binds the declared get_weather spec to the weather client.
func RegisterWeather(reg *Registry, spec config.ToolSpec, wc *WeatherClient) {
	reg.Register(llm.NewToolDefinition(spec.Name, spec.Description, spec.Parameters),
		func(ctx context.Context, args json.RawMessage) (any, error) {
			var a weatherArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return nil, fmt.Errorf("%s: bad arguments: %w", spec.Name, err)
			}
			return wc.Current(ctx, a.Latitude, a.Longitude)
		})
}
