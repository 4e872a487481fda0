package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pcastellanos/llm-workflows/internal/calendar"
	"github.com/pcastellanos/llm-workflows/internal/config"
	"github.com/pcastellanos/llm-workflows/internal/health"
	"github.com/pcastellanos/llm-workflows/internal/llm"
	"github.com/pcastellanos/llm-workflows/internal/logx"
	"github.com/pcastellanos/llm-workflows/internal/metrics"
	"github.com/pcastellanos/llm-workflows/internal/runtime"
	"github.com/pcastellanos/llm-workflows/internal/tools"
)

// Max request body size for the JSON endpoints (1MB)
const maxBodyBytes int64 = 1 << 20

type HTTPServer struct {
	srv    *http.Server
	router *calendar.Router
	loop   *tools.Loop
}

func NewHTTPServer(env *config.Env, router *calendar.Router, loop *tools.Loop, rt *runtime.Runtime) *HTTPServer {
	h := &HTTPServer{router: router, loop: loop}

	mux := http.NewServeMux()
	mux.HandleFunc("/route", h.handleRoute)
	mux.HandleFunc("/weather", h.handleWeather)
	mux.HandleFunc("/health/live", health.LiveHandler)
	mux.HandleFunc("/health/ready", health.ReadyHandler(rt))
	mux.Handle("/metrics", promhttp.Handler())

	hardened := secureMiddleware(metricsMiddleware(mux))

	h.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", env.Port),
		Handler:           hardened,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       env.ReadTimeout,
		WriteTimeout:      env.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return h
}

func (h *HTTPServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logx.Info("HTTP", "listening on %s", h.srv.Addr)
		errCh <- h.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logx.Info("HTTP", "shutting down server...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return h.srv.Shutdown(shutCtx)
	}
}

// handleRoute runs the calendar routing workflow synchronously.
// POST /route {"message": "..."}
func (h *HTTPServer) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message required", http.StatusBadRequest)
		return
	}

	result, err := h.router.Route(r.Context(), req.Message)
	if err != nil {
		writeUpstreamError(w, "Router", err)
		return
	}

	if !result.Handled {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"request_type": result.Classification.RequestType,
			"confidence":   result.Classification.Confidence,
			"error":        "request does not concern calendar events",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"request_type": result.Classification.RequestType,
		"confidence":   result.Classification.Confidence,
		"response":     result.Response,
	})
}

// handleWeather runs the weather tool loop synchronously.
// POST /weather {"question": "..."}
func (h *HTTPServer) handleWeather(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		http.Error(w, "question required", http.StatusBadRequest)
		return
	}

	report, err := h.loop.Run(r.Context(), req.Question)
	if err != nil {
		writeUpstreamError(w, "ToolLoop", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// decodeJSON enforces method, content type and body size before decoding.
// It writes the error response itself and reports success via the return.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, "invalid request body", status)
		return false
	}
	return true
}

func writeUpstreamError(w http.ResponseWriter, component string, err error) {
	logx.Error(component, "workflow failed: %v", err)

	var mismatch *llm.SchemaMismatchError
	if errors.As(err, &mismatch) {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":  "model output did not match the declared schema",
			"schema": mismatch.Schema,
		})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]any{
		"error": "upstream model call failed",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the status code for the metrics middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(r.Method, r.URL.Path, fmt.Sprintf("%d", rec.status))
	})
}

// secureMiddleware adds basic hardening:
// - Common security headers
// - Block TRACE method
func secureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodTrace {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}

		next.ServeHTTP(w, r)
	})
}
