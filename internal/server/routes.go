package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"grade-estimator/internal/grades"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// PercentageRequest is the body of POST /api/calculate_percentage.
type PercentageRequest struct {
	Score string `json:"score"`
}

// PercentageResponse reports the share of students at or better than Grade.
type PercentageResponse struct {
	Percentage int    `json:"percentage"`
	Status     string `json:"status"`
	Grade      string `json:"grade"`
}

// ErrorResponse is returned for rejected or failed requests.
// Percentage is only set on internal errors.
type ErrorResponse struct {
	Message    string `json:"message"`
	Status     string `json:"status"`
	Percentage *int   `json:"percentage,omitempty"`
}

// DistributionResponse describes the loaded data.
type DistributionResponse struct {
	Grades  []string       `json:"grades"`
	Counts  []int          `json:"counts"`
	Total   int            `json:"total"`
	Sources []string       `json:"sources"`
	Summary grades.Summary `json:"summary"`
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handlePage("home.html"))
	mux.HandleFunc("GET /estimator", s.handlePage("estimator.html"))
	mux.HandleFunc("POST /api/calculate_percentage", s.handleCalculatePercentage)
	mux.HandleFunc("GET /api/distribution", s.handleDistribution)
	mux.HandleFunc("GET /health", s.handleHealth)
}

type pageData struct {
	Grades  []string
	Total   int
	Sources []string
}

func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Grades:  s.dist.Scale().Labels(),
			Total:   s.dist.Total(),
			Sources: s.dist.Sources(),
		}

		var buf bytes.Buffer
		if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
			s.logger.Error("failed to render page", "page", name, "error", err)
			http.Error(w, "Server encountered an internal error.", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

// handleCalculatePercentage answers the share of students that scored the
// selected grade or better.
func (s *Server) handleCalculatePercentage(w http.ResponseWriter, r *http.Request) {
	var req PercentageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid grade selected.", Status: StatusError})
		return
	}

	if req.Score == "" || !s.dist.Scale().Contains(req.Score) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid grade selected.", Status: StatusError})
		return
	}

	writeJSON(w, http.StatusOK, PercentageResponse{
		Percentage: s.dist.Percentile(req.Score),
		Status:     StatusSuccess,
		Grade:      req.Score,
	})
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DistributionResponse{
		Grades:  s.dist.Scale().Labels(),
		Counts:  s.dist.Counts(),
		Total:   s.dist.Total(),
		Sources: s.dist.Sources(),
		Summary: s.summary,
	})
}

// handleHealth returns OK if the HTTP server is responding.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
