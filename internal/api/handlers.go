package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/adapters/excel"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/hypothesis"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/participant"
	apperrors "github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "한국인 영어 실력 분석 API",
		"status":    "running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	count, err := s.service.Reload(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "reloaded",
		"record_count": count,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	// Unhealthy is a payload, not an HTTP failure; monitoring reads the body.
	writeJSON(w, http.StatusOK, s.service.Health(r.Context()))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := decodeFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := s.service.Summarize(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.service.Locations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.service.Levels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

func (s *Server) handleHypothesis(id hypothesis.ID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := decodeFilter(r)
		if err != nil {
			writeError(w, err)
			return
		}
		verdict, err := s.service.Hypothesis(r.Context(), id, filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, verdict)
	}
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	filter, err := decodeFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := s.service.ChartData(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter, err := decodeFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := s.service.Filtered(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if view.Len() == 0 {
		writeError(w, apperrors.FilterEmpty("필터 조건에 맞는 데이터가 없습니다."))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="participants.xlsx"`)
	if err := excel.WriteTable(w, view); err != nil {
		log.Printf("export failed: %v", err)
	}
}

// handleNewData is the ingestion announcement sink. The stager calls it
// after uploading; the payload is informational and the cache is
// invalidated lazily so the next query pays for the rebuild.
func (s *Server) handleNewData(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileCount int    `json:"file_count"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err != io.EOF {
		writeError(w, apperrors.InvalidInput("invalid notification payload"))
		return
	}

	log.Printf("new data announced: %d files (%s)", payload.FileCount, payload.Message)
	s.service.Invalidate()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "acknowledged",
		"file_count": payload.FileCount,
	})
}

// decodeFilter reads an optional filter body. A missing or empty body is
// the unconstrained filter.
func decodeFilter(r *http.Request) (participant.Filter, error) {
	var filter participant.Filter
	err := json.NewDecoder(r.Body).Decode(&filter)
	if err != nil && err != io.EOF {
		return participant.Filter{}, apperrors.InvalidInput("invalid filter payload")
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses: query-shaped
// failures (insufficient data, empty filter, bad input) are 400s, anything
// configuration- or storage-shaped is a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeInsufficientData, apperrors.CodeFilterEmpty, apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	}

	var appErr *apperrors.AppError
	code := "INTERNAL_ERROR"
	if errors.As(err, &appErr) {
		code = appErr.Code
	}

	writeJSON(w, status, map[string]any{
		"detail": err.Error(),
		"code":   code,
	})
}
