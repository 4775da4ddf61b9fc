package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/docscan/internal/config"
	"github.com/dgallion1/docscan/internal/doctree"
	"github.com/dgallion1/docscan/internal/extract"
	"github.com/dgallion1/docscan/internal/matcher"
)

type fakeSearcher struct {
	block chan struct{}
	err   error
}

func (f *fakeSearcher) SearchPattern(ctx context.Context, files []doctree.File, pattern string) ([]matcher.FileMatches, error) {
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	out := []matcher.FileMatches{
		{FileName: files[0].Name, Matches: []matcher.Match{{LineNumber: 1, Line: pattern, FileName: files[0].Name}}},
	}
	for _, file := range files[1:] {
		out = append(out, matcher.Failed(file.Name, errors.New("unsupported")))
	}
	return out, nil
}

func (f *fakeSearcher) ExtractHeadingSection(ctx context.Context, files []doctree.File, heading string) ([]extract.Section, error) {
	out := make([]extract.Section, len(files))
	for i, file := range files {
		out[i] = extract.Section{FileName: file.Name, Title: "T", Heading: heading, Paragraph: "p"}
	}
	out[len(out)-1] = extract.ErrorSection(files[len(files)-1].Name, heading, errors.New("bad pdf"))
	return out, nil
}

func testConfig() config.Config {
	return config.Config{JobWorkers: 1, MaxJobQueue: 1, JobTTL: time.Hour}
}

func waitForStatus(t *testing.T, job *Job, want JobStatus) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status == want {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %q, last %q", job.ID, want, job.Snapshot().Status)
	return JobSnapshot{}
}

func TestOrchestrator_PatternJob(t *testing.T) {
	o := NewOrchestrator(testConfig(), &fakeSearcher{}, testLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(ModePattern, "needle", []doctree.File{{Name: "a.txt"}, {Name: "b.png"}})
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := waitForStatus(t, job, StatusCompleted)
	if snap.Progress.FilesDone != 2 || snap.Progress.FilesFailed != 1 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
	res, ok := snap.Result.([]matcher.FileMatches)
	if !ok || len(res) != 2 {
		t.Fatalf("expected 2 file results, got %#v", snap.Result)
	}
	if job.Files() != nil {
		t.Error("expected file bytes to be released after the job ran")
	}
	if o.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable by id")
	}
}

func TestOrchestrator_HeadingJobCountsErrors(t *testing.T) {
	o := NewOrchestrator(testConfig(), &fakeSearcher{}, testLogger())
	o.Start(context.Background())
	defer o.Stop()

	files := []doctree.File{{Name: "a.pdf"}, {Name: "b.pdf"}, {Name: "c.pdf"}}
	job := NewJob(ModeHeading, "Results", files)
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	snap := waitForStatus(t, job, StatusCompleted)
	if snap.Progress.FilesDone != 3 || snap.Progress.FilesFailed != 1 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
}

func TestOrchestrator_SearchErrorFailsJob(t *testing.T) {
	o := NewOrchestrator(testConfig(), &fakeSearcher{err: errors.New("bad pattern")}, testLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(ModePattern, "(", []doctree.File{{Name: "a.txt"}})
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	snap := waitForStatus(t, job, StatusFailed)
	if len(snap.Progress.Errors) != 1 || snap.Progress.Errors[0] != "bad pattern" {
		t.Errorf("expected recorded error, got %v", snap.Progress.Errors)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	block := make(chan struct{})
	o := NewOrchestrator(testConfig(), &fakeSearcher{block: block}, testLogger())
	o.Start(context.Background())
	defer o.Stop()
	defer close(block)

	files := []doctree.File{{Name: "a.txt"}}
	running := NewJob(ModePattern, "x", files)
	if err := o.Submit(running); err != nil {
		t.Fatalf("submit running: %v", err)
	}
	waitForStatus(t, running, StatusRunning)

	queued := NewJob(ModePattern, "x", files)
	if err := o.Submit(queued); err != nil {
		t.Fatalf("submit queued: %v", err)
	}
	rejected := NewJob(ModePattern, "x", files)
	err := o.Submit(rejected)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if rejected.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", rejected.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
	if o.TrackedJobs() != 3 {
		t.Errorf("expected 3 tracked jobs, got %d", o.TrackedJobs())
	}
}

func TestOrchestrator_StopFailsQueuedJobs(t *testing.T) {
	block := make(chan struct{})
	cfg := testConfig()
	cfg.MaxJobQueue = 2
	o := NewOrchestrator(cfg, &fakeSearcher{block: block}, testLogger())
	o.Start(context.Background())

	files := []doctree.File{{Name: "a.txt", Data: []byte("x")}}
	running := NewJob(ModePattern, "x", files)
	if err := o.Submit(running); err != nil {
		t.Fatalf("submit running: %v", err)
	}
	waitForStatus(t, running, StatusRunning)
	if o.Running() != 1 {
		t.Errorf("expected 1 running job, got %d", o.Running())
	}
	queued := NewJob(ModePattern, "x", files)
	if err := o.Submit(queued); err != nil {
		t.Fatalf("submit queued: %v", err)
	}

	close(block)
	o.Stop()
	o.Stop()

	if st := queued.Snapshot().Status; st == StatusQueued || st == StatusRunning {
		t.Errorf("expected queued job to be settled after Stop, got %q", st)
	}
	if queued.Files() != nil {
		t.Error("expected queued job bytes to be released")
	}
	if o.Running() != 0 {
		t.Errorf("expected no running jobs, got %d", o.Running())
	}

	late := NewJob(ModePattern, "x", files)
	if err := o.Submit(late); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if late.Files() != nil {
		t.Error("expected rejected job bytes to be released")
	}
}

func TestOrchestrator_StopWithoutStart(t *testing.T) {
	o := NewOrchestrator(testConfig(), &fakeSearcher{}, testLogger())
	job := NewJob(ModePattern, "x", []doctree.File{{Name: "a.txt"}})
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	o.Stop()
	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "canceled" {
		t.Errorf("expected canceled failure, got %q/%q", snap.Status, snap.Phase)
	}
}

func TestWorker_UnknownMode(t *testing.T) {
	w := NewWorker(&fakeSearcher{}, testLogger())
	job := NewJob(JobMode("bogus"), "x", nil)
	w.Process(context.Background(), job)
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected failed status, got %q", job.Snapshot().Status)
	}
}

func TestCleanupInterval(t *testing.T) {
	tests := []struct {
		ttl, want time.Duration
	}{
		{time.Hour, 5 * time.Minute},
		{4 * time.Minute, time.Minute},
		{time.Millisecond, time.Second},
	}
	for _, tc := range tests {
		if got := cleanupInterval(tc.ttl); got != tc.want {
			t.Errorf("ttl %s: expected %s, got %s", tc.ttl, tc.want, got)
		}
	}
}
