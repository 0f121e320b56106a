package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crime-insights-go/internal/auth"
	"crime-insights-go/internal/dataset"
	"crime-insights-go/internal/logger"
	"crime-insights-go/internal/metrics"
	"crime-insights-go/internal/processor"
	"crime-insights-go/internal/store"
	"crime-insights-go/internal/types"
)

type testEnv struct {
	handler http.Handler
	svc     *processor.Service
	auth    *auth.Authenticator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(context.Background(), "sqlite", ":memory:", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	m := metrics.New()
	svc := processor.New(st, processor.Options{Metrics: m}, logger.Discard())
	a := auth.NewAuthenticator("test-secret-0123456789", "crime-insights")
	return &testEnv{
		handler: New(svc, a, m, logger.Discard(), 1<<20).Handler(),
		svc:     svc,
		auth:    a,
	}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	tok, err := e.auth.Issue(auth.User{ID: "u-1", Email: "analyst@example.com"}, time.Hour)
	require.NoError(t, err)
	return tok
}

func uploadRequest(t *testing.T, url, filename, contents string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(logger.RequestIDHeader))
}

func TestPredictBatchEndpoint(t *testing.T) {
	env := newTestEnv(t)
	csv := "location,time_of_day,day_of_week\nAnna Nagar,night,saturday\n"

	rec := env.do(t, uploadRequest(t, "/api/v1/predict/batch", "crimes.csv", csv))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[batchResponse](t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Assault", resp.Predictions[0].PredictedCrimeType)

	rec = env.do(t, uploadRequest(t, "/api/v1/predict/batch?format=csv", "crimes.csv", csv))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, strings.Join(dataset.PredictionsHeader, ",")+"\nAnna Nagar,night,saturday,Assault,High,0.63,0.88", rec.Body.String())
}

func TestPredictBatchRejects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, uploadRequest(t, "/api/v1/predict/batch", "crimes.xlsx", "whatever"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, processor.ErrNotCSV.Error(), decode[errorBody](t, rec).Error)

	rec = env.do(t, uploadRequest(t, "/api/v1/predict/batch", "crimes.csv", "location\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/predict/batch", strings.NewReader("x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictEndpoint(t *testing.T) {
	env := newTestEnv(t)

	body := `{"location":"Anna Nagar","time_of_day":"night","day_of_week":"saturday"}`
	rec := env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[struct {
		Strategy   string           `json:"strategy"`
		Prediction types.Prediction `json:"prediction"`
	}](t, rec)
	assert.Equal(t, "hash", resp.Strategy)
	assert.InDelta(t, 0.63, resp.Prediction.Probability, 1e-9)

	body = `{"location":"Anna Nagar","strategy":"weighted"}`
	rec = env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)

	body = `{"location":"Anna Nagar","strategy":"oracle"}`
	rec = env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(`{"location":"Adyar"}`)).WithContext(ctx)
	rec = env.do(t, req)
	assert.Equal(t, statusClientClosedRequest, rec.Code)

	rec = env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(`{"location":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSavePredictionsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	body := `{"predictions":[{"location":"Adyar","time_of_day":"night","day_of_week":"friday","predicted_crime_type":"Theft","risk_level":"High","probability":0.6,"confidence":0.8}]}`

	rec := env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "login required", decode[errorBody](t, rec).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	rec = env.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged := `{"predictions":[{"location":"Adyar","time_of_day":"night","day_of_week":"friday","predicted_crime_type":"Nuclear","risk_level":"Apocalyptic","probability":7.5,"confidence":-3}]}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(forged))
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	rec = env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/predictions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]types.PredictionLog](t, rec)
	require.Len(t, logs, 1)
	assert.Equal(t, "Adyar", logs[0].Location)
}

func TestIncidentEndpoints(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.SeedIfEmpty(context.Background(), 12)
	require.NoError(t, err)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/incidents?page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[dataset.Page](t, rec)
	assert.Equal(t, 12, page.TotalItems)
	assert.Len(t, page.Items, 2)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/incidents?page=9223372036854775807", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[dataset.Page](t, rec)
	assert.Empty(t, page.Items)
	assert.Equal(t, 12, page.TotalItems)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/incidents?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := `{"incident_id":"CR77777","date":"2024-07-04","time":"21:30","crime_type":"Robbery","location":"Porur","severity":"high"}`
	rec = env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/incidents", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[types.Incident](t, rec)
	assert.Equal(t, types.StatusReported, created.Status)

	rec = env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/incidents", strings.NewReader(strings.Replace(body, "high", "extreme", 1))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/incidents?q=CR77777", nil))
	page = decode[dataset.Page](t, rec)
	assert.Equal(t, 1, page.TotalItems)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/incidents/export.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "crime_dataset.csv")
	assert.Equal(t, 14, len(strings.Split(rec.Body.String(), "\n")))

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/incidents/export.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	incidents, err := dataset.LoadIncidentsXLSX(rec.Body)
	require.NoError(t, err)
	assert.Len(t, incidents, 13)
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.SeedIfEmpty(context.Background(), 30)
	require.NoError(t, err)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[processor.Dashboard](t, rec)
	assert.Equal(t, 30, d.Overview.TotalIncidents)
	assert.Len(t, d.BySeverity, 3)
	assert.Len(t, d.Heatmap, 10)
	assert.NotEmpty(t, d.Insight.Insight)
}

func TestTutorialEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/tutorial", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rec), 12)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/tutorial/script.py", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# Step 1: Import Libraries"))

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/concepts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rec), 4)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="GET /healthz"`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(processor.ErrBusy))
	assert.Equal(t, http.StatusBadGateway, statusFor(processor.ErrStore))
	assert.Equal(t, http.StatusUnauthorized, statusFor(processor.ErrLoginRequired))
	assert.Equal(t, http.StatusBadRequest, statusFor(dataset.ErrNoDataRows))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, statusClientClosedRequest, statusFor(fmt.Errorf("predict: %w", context.Canceled)))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
}
