package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"ddnet-bridge/internal/platform/logger"
	"ddnet-bridge/internal/platform/metrics"
	"ddnet-bridge/internal/preset"
)

func newTestRouter(t *testing.T, m *metrics.Metrics) http.Handler {
	t.Helper()
	log := logger.Discard()
	return NewRouter(NewHandler(preset.NewRegistry(), log), log, m)
}

func TestHandler_Healthz(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestHandler_Presets(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/presets", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s", ct)
	}
	var body PresetsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(body.Generation, []string{"easy", "hard", "hardly"}) {
		t.Errorf("generation presets = %v", body.Generation)
	}
	if !reflect.DeepEqual(body.Map, []string{"default", "long", "small"}) {
		t.Errorf("map presets = %v", body.Map)
	}
}

func TestRouter_metrics(t *testing.T) {
	m := metrics.New()
	r := newTestRouter(t, m)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bridge_http_requests_total 1") {
		t.Errorf("expected one counted request before the scrape:\n%s", rec.Body.String())
	}
}

func TestRouter_metrics_disabled(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without metrics, got %d", rec.Code)
	}
}

func TestRouter_method_not_allowed(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/presets", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
