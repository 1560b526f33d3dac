package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"nz_propper/ingest"
	"nz_propper/models"
	"nz_propper/pricing"
	"nz_propper/scraper"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCalculate runs the bulk pipeline over an uploaded CSV export.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		sendJSONError(w, "could not parse upload or file too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendJSONError(w, "missing 'file' field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := ingest.ReadCSV(file)
	if err != nil {
		sendJSONError(w, "could not read CSV: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.analyzer.AnalyzeRows(r.Context(), rows, header.Filename)
	if err != nil {
		log.Printf("[server] analyze %s: %v", header.Filename, err)
		sendJSONError(w, "analysis failed", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, report)
}

type analyzeRequest struct {
	URL string `json:"url"`
}

// handleAnalyze scrapes one listing URL live and returns its projection.
// Unlike the bulk path, every failure here aborts the request.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		sendJSONError(w, "missing 'url' field", http.StatusBadRequest)
		return
	}

	result, err := s.analyzer.AnalyzeURL(r.Context(), req.URL)
	if err != nil {
		status, message := mapAnalyzeError(err)
		log.Printf("[server] analyze url %s: %v", req.URL, err)
		sendJSONError(w, message, status)
		return
	}
	sendJSON(w, http.StatusOK, result)
}

func mapAnalyzeError(err error) (int, string) {
	switch {
	case errors.Is(err, scraper.ErrInvalidURL):
		return http.StatusBadRequest, "invalid listing URL"
	case errors.Is(err, scraper.ErrNavigationTimeout):
		return http.StatusGatewayTimeout, "the listing page took too long to load"
	case errors.Is(err, scraper.ErrExtraction):
		return http.StatusBadGateway, "could not find listing details on the page"
	case errors.Is(err, pricing.ErrInvalidPrice):
		return http.StatusUnprocessableEntity, "listing price failed validation"
	default:
		return http.StatusInternalServerError, "analysis failed"
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		sendJSONError(w, "run history is not enabled", http.StatusNotFound)
		return
	}
	runs, err := s.runs.RecentRuns(r.Context(), 50)
	if err != nil {
		log.Printf("[server] list runs: %v", err)
		sendJSONError(w, "could not list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []models.AnalysisRun{}
	}
	sendJSON(w, http.StatusOK, runs)
}
