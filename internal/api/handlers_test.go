package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"airwatch/internal/alerts"
	"airwatch/internal/config"
	"airwatch/internal/logging"
	"airwatch/internal/models"
	"airwatch/internal/readings"
)

func f64(v float64) *float64 { return &v }

func newTestRouter(t *testing.T, store *stubAlertStore, thresholds *stubThresholds, cache *readings.Cache) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, err := logging.New("", "error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if cache == nil {
		cache = readings.NewCache()
	}

	alertSvc := alerts.New(store, thresholds, cache, nopBroadcaster{}, logger)
	h := NewHandler(alertSvc, nil, nil, cache, nil, nil, logger)

	var cfg config.Config
	cfg.API.BasePath = "/api"
	return NewRouter(h, logger, cfg)
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubAlertStore{}, &stubThresholds{byParam: map[string]models.Threshold{}}, nil)

	w := doRequest(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", w.Code)
	}
}

func TestGetAlerts(t *testing.T) {
	store := &stubAlertStore{alerts: []models.Alert{
		{ID: 1, Parameter: "pm25", Severity: models.SeverityDanger, Type: models.AlertTypeAir},
		{ID: 2, Parameter: "temperature", Severity: models.SeverityWarning, Type: models.AlertTypeWeather},
	}}
	r := newTestRouter(t, store, &stubThresholds{byParam: map[string]models.Threshold{}}, nil)

	w := doRequest(r, http.MethodGet, "/api/alerts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/alerts = %d, want 200", w.Code)
	}
	var got []models.Alert
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("alert count = %d, want 2", len(got))
	}
}

func TestGetAlertsBySeverityRejectsUnknown(t *testing.T) {
	r := newTestRouter(t, &stubAlertStore{}, &stubThresholds{byParam: map[string]models.Threshold{}}, nil)

	w := doRequest(r, http.MethodGet, "/api/alerts/severity/catastrophic", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("GET unknown severity = %d, want 400", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/alerts/severity/danger", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET danger severity = %d, want 200", w.Code)
	}
}

func TestCheckValueEndpoint(t *testing.T) {
	thresholds := &stubThresholds{byParam: map[string]models.Threshold{
		"pm25": {ID: 1, Parameter: "pm25", Warning: f64(35), Critical: f64(55)},
	}}
	r := newTestRouter(t, &stubAlertStore{}, thresholds, nil)

	w := doRequest(r, http.MethodPost, "/api/alerts/check", `{"parameter":"pm25","value":60}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/alerts/check = %d, want 200", w.Code)
	}
	var resp struct {
		Breached bool          `json:"breached"`
		Alert    *models.Alert `json:"alert"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Breached || resp.Alert == nil || resp.Alert.Severity != models.SeverityDanger {
		t.Errorf("check response = %+v, want danger breach", resp)
	}

	w = doRequest(r, http.MethodPost, "/api/alerts/check", `{"parameter":"pm25","value":10}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/alerts/check = %d, want 200", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Breached {
		t.Errorf("check response = %+v, want no breach", resp)
	}

	w = doRequest(r, http.MethodPost, "/api/alerts/check", `{"parameter":"unknown","value":10}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("POST check unknown parameter = %d, want 404", w.Code)
	}
}

func TestUpdateThresholdEndpoint(t *testing.T) {
	thresholds := &stubThresholds{byParam: map[string]models.Threshold{
		"pm25": {ID: 1, Parameter: "pm25", Warning: f64(35), Critical: f64(55)},
	}}
	r := newTestRouter(t, &stubAlertStore{}, thresholds, nil)

	w := doRequest(r, http.MethodPut, "/api/thresholds/1", `{"warning_threshold":40,"critical_threshold":70}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /api/thresholds/1 = %d, want 200", w.Code)
	}
	var got models.Threshold
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if *got.Warning != 40 || *got.Critical != 70 {
		t.Errorf("updated threshold = %v/%v, want 40/70", *got.Warning, *got.Critical)
	}

	w = doRequest(r, http.MethodPut, "/api/thresholds/99", `{"warning_threshold":40}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("PUT unknown threshold = %d, want 404", w.Code)
	}
}

func TestDeleteAlertEndpoint(t *testing.T) {
	store := &stubAlertStore{alerts: []models.Alert{{ID: 1, Parameter: "pm25", Severity: models.SeverityWarning}}}
	r := newTestRouter(t, store, &stubThresholds{byParam: map[string]models.Threshold{}}, nil)

	w := doRequest(r, http.MethodDelete, "/api/alerts/1", "")
	if w.Code != http.StatusOK {
		t.Errorf("DELETE /api/alerts/1 = %d, want 200", w.Code)
	}
	w = doRequest(r, http.MethodDelete, "/api/alerts/1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("DELETE removed alert = %d, want 404", w.Code)
	}
	w = doRequest(r, http.MethodDelete, "/api/alerts/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("DELETE invalid id = %d, want 400", w.Code)
	}
}

func TestGetLatestReadingEndpoint(t *testing.T) {
	cache := readings.NewCache()
	r := newTestRouter(t, &stubAlertStore{}, &stubThresholds{byParam: map[string]models.Threshold{}}, cache)

	w := doRequest(r, http.MethodGet, "/api/airquality/latest", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("GET latest without reading = %d, want 404", w.Code)
	}

	cache.Set(models.Reading{PM25: 12.5, AQI: 80, Timestamp: time.Now()})
	w = doRequest(r, http.MethodGet, "/api/airquality/latest", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET latest = %d, want 200", w.Code)
	}
	var got models.Reading
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.PM25 != 12.5 || got.AQI != 80 {
		t.Errorf("latest reading = %+v, want pm25=12.5 aqi=80", got)
	}
}
