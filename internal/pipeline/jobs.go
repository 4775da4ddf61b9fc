package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/docscan/internal/doctree"
	"github.com/google/uuid"
)

// JobStatus represents the state of an async search job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// JobMode selects which search a job runs.
type JobMode string

const (
	ModePattern JobMode = "pattern"
	ModeHeading JobMode = "heading"
)

// Job tracks the state of one async batch search.
type Job struct {
	mu sync.Mutex

	ID    string  `json:"job_id"`
	Mode  JobMode `json:"mode"`
	Query string  `json:"query"`

	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filenames []string  `json:"filenames"`

	Progress Progress `json:"progress"`
	Result   any      `json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized. Released once the job has run.
	files  []doctree.File
	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalFiles  int      `json:"total_files"`
	FilesDone   int      `json:"files_done"`
	FilesFailed int      `json:"files_failed"`
	Errors      []string `json:"errors"`
}

// NewJob creates a queued job over files with a fresh random ID.
func NewJob(mode JobMode, query string, files []doctree.File) *Job {
	now := time.Now()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return &Job{
		ID:        uuid.NewString(),
		Mode:      mode,
		Query:     query,
		Status:    StatusQueued,
		Phase:     "queued",
		Filenames: names,
		Progress:  Progress{TotalFiles: len(files)},
		CreatedAt: now,
		UpdatedAt: now,
		files:     files,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes jobs that have not been updated within the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// Complete stores the result and per-file counts and marks the job completed.
func (j *Job) Complete(result any, done, failed int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Result = result
	j.Progress.FilesDone = done
	j.Progress.FilesFailed = failed
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Files returns the uploaded documents.
func (j *Job) Files() []doctree.File {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// ReleaseFiles drops the uploaded bytes.
func (j *Job) ReleaseFiles() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.files = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Mode      JobMode   `json:"mode"`
	Query     string    `json:"query"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filenames []string  `json:"filenames"`
	Progress  Progress  `json:"progress"`
	Result    any       `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state. Result is shared, not
// copied; it is never mutated after Complete.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	names := make([]string, len(j.Filenames))
	copy(names, j.Filenames)
	return JobSnapshot{
		ID:        j.ID,
		Mode:      j.Mode,
		Query:     j.Query,
		Status:    j.Status,
		Phase:     j.Phase,
		Filenames: names,
		Progress: Progress{
			TotalFiles:  j.Progress.TotalFiles,
			FilesDone:   j.Progress.FilesDone,
			FilesFailed: j.Progress.FilesFailed,
			Errors:      errs,
		},
		Result:    j.Result,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
