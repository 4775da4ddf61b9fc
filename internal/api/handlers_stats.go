package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{}

	if p := s.metrics.Pool; p != nil {
		out["pool"] = map[string]any{
			"workers":     p.Workers(),
			"queue_depth": p.QueueDepth(),
		}
	}
	if l := s.metrics.Latency; l != nil {
		out["units"] = l.Snapshot()
	}
	if c := s.metrics.Cache; c != nil {
		out["cache"] = c.Stats()
	}
	if o := s.orchestrator; o != nil {
		out["jobs"] = map[string]any{
			"queue_depth": o.QueueDepth(),
			"running":     o.Running(),
			"tracked":     o.TrackedJobs(),
		}
	}

	writeJSON(w, http.StatusOK, out)
}
