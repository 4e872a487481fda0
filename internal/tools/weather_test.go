package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pcastellanos/llm-workflows/internal/config"
)

func TestWeatherClient_Current(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/forecast", r.URL.Path)
		gotQuery = map[string]string{
			"latitude":  r.URL.Query().Get("latitude"),
			"longitude": r.URL.Query().Get("longitude"),
			"current":   r.URL.Query().Get("current"),
			"hourly":    r.URL.Query().Get("hourly"),
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"current": map[string]any{"temperature_2m": 14.2, "wind_speed_10m": 9.1},
			"hourly":  map[string]any{},
		})
	}))
	defer ts.Close()

	c := NewWeatherClient(ts.URL, time.Second)
	current, err := c.Current(context.Background(), 48.85, 2.35)
	require.NoError(t, err)

	require.Equal(t, "48.85", gotQuery["latitude"])
	require.Equal(t, "2.35", gotQuery["longitude"])
	require.Equal(t, "temperature_2m,wind_speed_10m", gotQuery["current"])
	require.Equal(t, "temperature_2m,relative_humidity_2m,wind_speed_10m", gotQuery["hourly"])
	require.Equal(t, 14.2, current["temperature_2m"])
}

func TestWeatherClient_Non200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad coordinates", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := NewWeatherClient(ts.URL, time.Second)
	_, err := c.Current(context.Background(), 1000, 1000)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 400")
	require.Contains(t, err.Error(), "bad coordinates")
}

func TestWeatherClient_MissingCurrentBlock(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hourly":{}}`))
	}))
	defer ts.Close()

	c := NewWeatherClient(ts.URL, time.Second)
	_, err := c.Current(context.Background(), 48.85, 2.35)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no current block")
}

func TestRegisterWeather_BindsSpec(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"current": map[string]any{"temperature_2m": 5.0},
		})
	}))
	defer ts.Close()

	reg := NewRegistry()
	spec := config.ToolSpec{
		Name:        "get_weather",
		Description: "Get current temperature for a given location.",
		Parameters:  map[string]any{"type": "object"},
	}
	RegisterWeather(reg, spec, NewWeatherClient(ts.URL, time.Second))

	defs := reg.Definitions()
	require.Len(t, defs, 1)
	require.Equal(t, "get_weather", defs[0].Function.Name)
	require.Equal(t, spec.Description, defs[0].Function.Description)

	out, err := reg.Call(context.Background(), "get_weather", json.RawMessage(`{"latitude":48.85,"longitude":2.35}`))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"temperature_2m": 5.0}, out)
}

func TestRegisterWeather_BadArguments(t *testing.T) {
	reg := NewRegistry()
	RegisterWeather(reg, config.ToolSpec{Name: "get_weather"}, NewWeatherClient("http://unused", time.Second))

	_, err := reg.Call(context.Background(), "get_weather", json.RawMessage(`{"latitude":"north"}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad arguments")
}
