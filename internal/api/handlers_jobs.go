package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/docscan/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		jsonError(w, "async jobs unavailable", http.StatusServiceUnavailable)
		return
	}
	if rerr := s.parseUploadForm(w, r); rerr != nil {
		jsonError(w, rerr.msg, rerr.code)
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := jobForm{Mode: r.FormValue("mode")}
	if err := s.validate.Struct(form); err != nil {
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	mode := pipeline.JobMode(form.Mode)
	query, err := s.jobQuery(r, mode)
	if err != nil {
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	files, rerr := s.uploadedFiles(r)
	if rerr != nil {
		jsonError(w, rerr.msg, rerr.code)
		return
	}

	job := pipeline.NewJob(mode, query, files)
	if err := s.orchestrator.Submit(job); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrQueueFull) || errors.Is(err, pipeline.ErrStopped) {
			code = http.StatusServiceUnavailable
		}
		jsonError(w, err.Error(), code)
		return
	}

	s.log.Info("job queued", "job_id", job.ID, "mode", string(mode), "files", len(files))
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"mode":     mode,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		jsonError(w, "async jobs unavailable", http.StatusServiceUnavailable)
		return
	}
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// jobQuery validates and returns the form field the job mode searches with.
func (s *Server) jobQuery(r *http.Request, mode pipeline.JobMode) (string, error) {
	if mode == pipeline.ModeHeading {
		f := headingForm{Heading: r.FormValue("heading")}
		return f.Heading, s.validate.Struct(f)
	}
	f := patternForm{Pattern: r.FormValue("pattern")}
	return f.Pattern, s.validate.Struct(f)
}
