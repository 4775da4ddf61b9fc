package api

import (
	"net/http"
)

func (s *Server) handlePatternSearch(w http.ResponseWriter, r *http.Request) {
	if rerr := s.parseUploadForm(w, r); rerr != nil {
		jsonError(w, rerr.msg, rerr.code)
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := patternForm{Pattern: r.FormValue("pattern")}
	if err := s.validate.Struct(form); err != nil {
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return
	}
	files, rerr := s.uploadedFiles(r)
	if rerr != nil {
		jsonError(w, rerr.msg, rerr.code)
		return
	}

	results, err := s.search.SearchPattern(r.Context(), files, form.Pattern)
	if err != nil {
		s.log.Error("pattern search failed", "error", err, "files", len(files))
		jsonError(w, "search failed: "+err.Error(), searchStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleHeadingSearch(w http.ResponseWriter, r *http.Request) {
	if rerr := s.parseUploadForm(w, r); rerr != nil {
		jsonError(w, rerr.msg, rerr.code)
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := headingForm{Heading: r.FormValue("heading")}
	if err := s.validate.Struct(form); err != nil {
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return
	}
	files, rerr := s.uploadedFiles(r)
	if rerr != nil {
		jsonError(w, rerr.msg, rerr.code)
		return
	}

	results, err := s.search.ExtractHeadingSection(r.Context(), files, form.Heading)
	if err != nil {
		s.log.Error("heading search failed", "error", err, "files", len(files))
		jsonError(w, "search failed: "+err.Error(), searchStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, results)
}
