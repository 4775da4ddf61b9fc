package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/docscan/internal/report"
)

// maxReportBody bounds the JSON body of a report request.
const maxReportBody = 10 << 20

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReportBody)

	var req report.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.SearchResults) == 0 {
		jsonError(w, report.ErrNoResults.Error(), http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	// Render into memory so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := report.Render(&buf, req); err != nil {
		s.log.Error("render report failed", "error", err, "results", len(req.SearchResults))
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(req)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func reportFilename(req report.Request) string {
	return fmt.Sprintf("search-results-%dfiles.pdf", len(req.SearchResults))
}
