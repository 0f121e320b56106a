package httpapi

import (
	"net/http"

	"crime-insights-go/internal/auth"
	"crime-insights-go/internal/logger"
	"crime-insights-go/internal/metrics"
	"crime-insights-go/internal/processor"
	"crime-insights-go/internal/tutorial"
)

type Server struct {
	svc       *processor.Service
	auth      *auth.Authenticator
	metrics   *metrics.Metrics
	log       *logger.Logger
	maxUpload int64
	tutorial  tutorial.Params
}

func New(svc *processor.Service, a *auth.Authenticator, m *metrics.Metrics, log *logger.Logger, maxUpload int64) *Server {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &Server{
		svc:       svc,
		auth:      a,
		metrics:   m,
		log:       log.Component("http"),
		maxUpload: maxUpload,
		tutorial:  tutorial.DefaultParams(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.health)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /api/v1/incidents", s.listIncidents)
	mux.HandleFunc("POST /api/v1/incidents", s.createIncident)
	mux.HandleFunc("GET /api/v1/incidents/export.csv", s.exportIncidentsCSV)
	mux.HandleFunc("GET /api/v1/incidents/export.xlsx", s.exportIncidentsXLSX)
	mux.HandleFunc("GET /api/v1/stats", s.stats)

	mux.HandleFunc("POST /api/v1/predict", s.predict)
	mux.HandleFunc("POST /api/v1/predict/batch", s.predictBatch)
	mux.HandleFunc("POST /api/v1/predictions", s.savePredictions)
	mux.HandleFunc("GET /api/v1/predictions", s.listPredictions)

	mux.HandleFunc("GET /api/v1/tutorial", s.tutorialSteps)
	mux.HandleFunc("GET /api/v1/tutorial/script.py", s.tutorialScript)
	mux.HandleFunc("GET /api/v1/concepts", s.concepts)

	authed := s.auth.Middleware(func(w http.ResponseWriter, r *http.Request, err error) {
		s.writeError(w, r, err)
	})(mux)
	return s.instrument(mux, authed)
}
