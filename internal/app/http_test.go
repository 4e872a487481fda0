package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pcastellanos/llm-workflows/internal/calendar"
	"github.com/pcastellanos/llm-workflows/internal/config"
	"github.com/pcastellanos/llm-workflows/internal/llm"
	"github.com/pcastellanos/llm-workflows/internal/runtime"
	"github.com/pcastellanos/llm-workflows/internal/tools"
)

type scriptedLLM struct {
	replies []string
	err     error
	pingErr error
}

func (s *scriptedLLM) CreateChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.replies) == 0 {
		return nil, errors.New("scripted llm: no reply left")
	}
	content := s.replies[0]
	s.replies = s.replies[1:]
	return &llm.ChatResponse{
		Choices: []llm.Choice{{Message: llm.Message{Role: llm.RoleAssistant, Content: content}}},
	}, nil
}

func (s *scriptedLLM) Ping(ctx context.Context) error { return s.pingErr }

func newTestServer(t *testing.T, mock *scriptedLLM) *httptest.Server {
	t.Helper()

	env := &config.Env{
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	router := calendar.NewRouter(mock, "gpt-4o")
	loop := tools.NewLoop(mock, "gpt-4o", tools.NewRegistry())
	rt := &runtime.Runtime{ToolsLoaded: true, LLMClient: mock}

	h := NewHTTPServer(env, router, loop, rt)
	ts := httptest.NewServer(h.srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func TestHandleRoute_NewEvent(t *testing.T) {
	mock := &scriptedLLM{replies: []string{
		`{"request_type":"new_event","confidence_score":0.95,"description":"Team Sync on 2025-01-10T10:00 with Alice and Bob"}`,
		`{"name":"Team Sync","date":"2025-01-10T10:00","duration_minutes":60,"participants":["Alice","Bob"]}`,
	}}
	ts := newTestServer(t, mock)

	resp, body := postJSON(t, ts.URL+"/route", `{"message":"schedule a team sync"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, "new_event", body["request_type"])
	response := body["response"].(map[string]any)
	require.Equal(t, "Created new event 'Team Sync' for 2025-01-10T10:00 with Alice, Bob", response["message"])
	require.Equal(t, true, response["success"])
}

func TestHandleRoute_OtherIs422(t *testing.T) {
	mock := &scriptedLLM{replies: []string{
		`{"request_type":"other","confidence_score":0.8,"description":"Unrelated question"}`,
	}}
	ts := newTestServer(t, mock)

	resp, body := postJSON(t, ts.URL+"/route", `{"message":"what is the meaning of life"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "other", body["request_type"])
	require.NotEmpty(t, body["error"])
}

func TestHandleRoute_UpstreamFailureIs502(t *testing.T) {
	ts := newTestServer(t, &scriptedLLM{err: errors.New("connection refused")})

	resp, body := postJSON(t, ts.URL+"/route", `{"message":"schedule a sync"}`)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, "upstream model call failed", body["error"])
}

func TestHandleRoute_SchemaMismatchIs502WithSchema(t *testing.T) {
	mock := &scriptedLLM{replies: []string{
		`this is not a classification`,
	}}
	ts := newTestServer(t, mock)

	resp, body := postJSON(t, ts.URL+"/route", `{"message":"schedule a sync"}`)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, "calendar_request_type", body["schema"])
}

func TestHandleRoute_BadRequests(t *testing.T) {
	ts := newTestServer(t, &scriptedLLM{})

	// wrong method
	resp, err := http.Get(ts.URL + "/route")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	// wrong content type
	resp, err = http.Post(ts.URL+"/route", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	// empty message
	resp, _ = postJSON(t, ts.URL+"/route", `{"message":"  "}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// malformed body
	resp, _ = postJSON(t, ts.URL+"/route", `{`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleWeather_OK(t *testing.T) {
	mock := &scriptedLLM{replies: []string{
		// assistant answers without tool calls, then the structured round
		`Paris is mild today.`,
		`{"temperature":14.2,"response":"Mild in Paris today."}`,
	}}
	ts := newTestServer(t, mock)

	resp, body := postJSON(t, ts.URL+"/weather", `{"question":"weather in Paris?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 14.2, body["temperature"])
	require.Equal(t, "Mild in Paris today.", body["response"])
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, &scriptedLLM{})

	resp, err := http.Get(ts.URL + "/health/live")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/health/ready")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthReady_LLMDown(t *testing.T) {
	ts := newTestServer(t, &scriptedLLM{pingErr: errors.New("unreachable")})

	resp, err := http.Get(ts.URL + "/health/ready")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, &scriptedLLM{})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), "go_goroutines")
}

func TestSecureMiddleware(t *testing.T) {
	ts := newTestServer(t, &scriptedLLM{})

	req, err := http.NewRequest(http.MethodTrace, ts.URL+"/route", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/health/live")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}
