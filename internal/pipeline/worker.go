package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docscan/internal/doctree"
	"github.com/dgallion1/docscan/internal/extract"
	"github.com/dgallion1/docscan/internal/matcher"
)

// Searcher runs the two batch searches a job can ask for.
type Searcher interface {
	SearchPattern(ctx context.Context, files []doctree.File, pattern string) ([]matcher.FileMatches, error)
	ExtractHeadingSection(ctx context.Context, files []doctree.File, heading string) ([]extract.Section, error)
}

// Worker runs a single job against a Searcher.
type Worker struct {
	search Searcher
	log    *slog.Logger
}

func NewWorker(search Searcher, log *slog.Logger) *Worker {
	return &Worker{search: search, log: log}
}

// Process runs the job to completion and records its result or error.
// The uploaded bytes are released afterwards in every case.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "mode", string(job.Mode))
	defer job.ReleaseFiles()

	files := job.Files()
	job.SetStatus(StatusRunning, string(job.Mode))
	start := time.Now()

	var (
		result any
		done   int
		failed int
		err    error
	)
	switch job.Mode {
	case ModePattern:
		var res []matcher.FileMatches
		res, err = w.search.SearchPattern(ctx, files, job.Query)
		for _, fm := range res {
			if fm.Error != "" {
				failed++
			}
		}
		done, result = len(files), res
	case ModeHeading:
		var res []extract.Section
		res, err = w.search.ExtractHeadingSection(ctx, files, job.Query)
		for _, s := range res {
			if s.Title == extract.ErrorTitle {
				failed++
			}
		}
		done, result = len(res), res
	default:
		err = fmt.Errorf("unknown job mode %q", job.Mode)
	}

	if err != nil {
		log.Error("job failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, string(job.Mode))
		return
	}

	job.Complete(result, done, failed)
	log.Info("job complete", "files", done, "failed", failed, "duration_ms", time.Since(start).Milliseconds())
}
