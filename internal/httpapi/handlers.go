package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"crime-insights-go/internal/auth"
	"crime-insights-go/internal/dataset"
	"crime-insights-go/internal/predictor"
	"crime-insights-go/internal/processor"
	"crime-insights-go/internal/store"
	"crime-insights-go/internal/tutorial"
	"crime-insights-go/internal/types"
)

const (
	incidentsFile   = "crime_dataset"
	predictionsFile = "crime_predictions.csv"
)

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %w", errBadRequest, err)
	}
	return nil
}

// intParam reads an optional positive integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return n, nil
}

func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.log, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listIncidents(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Table(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.log, r, http.StatusOK, p)
}

type incidentRequest struct {
	IncidentID  string  `json:"incident_id"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	CrimeType   string  `json:"crime_type"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Severity    string  `json:"severity"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
}

func (s *Server) createIncident(w http.ResponseWriter, r *http.Request) {
	var req incidentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sev, err := types.ParseSeverity(req.Severity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := types.StatusReported
	if req.Status != "" {
		if status, err = types.ParseStatus(req.Status); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	in := &types.Incident{
		IncidentID:  req.IncidentID,
		Date:        req.Date,
		Time:        req.Time,
		CrimeType:   req.CrimeType,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Severity:    sev,
		Status:      status,
		Description: req.Description,
	}
	if err := s.svc.CreateIncident(r.Context(), in); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.log, r, http.StatusCreated, in)
}

func (s *Server) exportIncidentsCSV(w http.ResponseWriter, r *http.Request) {
	incidents, err := s.svc.Incidents(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	attachment(w, "text/csv", incidentsFile+".csv")
	if err := dataset.WriteIncidentsCSV(w, incidents); err != nil {
		s.log.WithRequest(r).WithError(err).Error("failed to write csv export")
	}
}

func (s *Server) exportIncidentsXLSX(w http.ResponseWriter, r *http.Request) {
	incidents, err := s.svc.Incidents(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.svc.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := dataset.WriteIncidentsXLSX(&buf, incidents, d.Stats); err != nil {
		s.writeError(w, r, err)
		return
	}
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", incidentsFile+".xlsx")
	if _, err := buf.WriteTo(w); err != nil {
		s.log.WithRequest(r).WithError(err).Error("failed to write xlsx export")
	}
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.log, r, http.StatusOK, d)
}

type predictRequest struct {
	types.Query
	Strategy string `json:"strategy"`
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	strategy, err := predictor.ParseStrategy(req.Strategy)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	p, err := s.svc.PredictOne(r.Context(), req.Query, strategy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.log, r, http.StatusOK, map[string]interface{}{
		"strategy":   strategy,
		"prediction": p,
	})
}

type batchResponse struct {
	Count       int                `json:"count"`
	Predictions []types.Prediction `json:"predictions"`
}

func (s *Server) predictBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: missing file field: %w", errBadRequest, err))
		return
	}
	defer file.Close()
	if err := processor.CheckUpload(header.Filename, header.Header.Get("Content-Type")); err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: read upload: %w", errBadRequest, err))
		return
	}

	preds, err := s.svc.PredictBatch(r.Context(), string(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		attachment(w, "text/csv", predictionsFile)
		if err := dataset.WritePredictionsCSV(w, preds); err != nil {
			s.log.WithRequest(r).WithError(err).Error("failed to write predictions csv")
		}
		return
	}
	writeJSON(w, s.log, r, http.StatusOK, batchResponse{Count: len(preds), Predictions: preds})
}

type saveRequest struct {
	Predictions []types.Prediction `json:"predictions"`
}

func (s *Server) savePredictions(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	logs, err := s.svc.SavePredictions(r.Context(), auth.UserFromContext(r.Context()), req.Predictions)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.log, r, http.StatusCreated, map[string]interface{}{
		"saved": len(logs),
		"logs":  logs,
	})
}

func (s *Server) listPredictions(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", store.MaxLogs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logs, err := s.svc.ListLogs(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.log, r, http.StatusOK, logs)
}

func (s *Server) tutorialSteps(w http.ResponseWriter, r *http.Request) {
	steps, err := tutorial.Steps(s.tutorial)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.log, r, http.StatusOK, steps)
}

func (s *Server) tutorialScript(w http.ResponseWriter, r *http.Request) {
	script, err := tutorial.Script(s.tutorial)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	attachment(w, "text/x-python; charset=utf-8", tutorial.ScriptName)
	_, _ = io.WriteString(w, script)
}

func (s *Server) concepts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.log, r, http.StatusOK, tutorial.Concepts())
}
