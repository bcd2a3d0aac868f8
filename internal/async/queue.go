package async

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsense/internal/entity"
)

// Job is one document waiting for the processor.
type Job struct {
	ID          uuid.UUID
	Document    *entity.Document
	Force       bool // enqueue even if deduplicated
	SubmittedAt time.Time
	TraceID     string
}

// NewJob wraps doc in a Job with a fresh ID.
func NewJob(doc *entity.Document) Job {
	return Job{ID: uuid.New(), Document: doc, SubmittedAt: time.Now().UTC()}
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Sink receives every finished job, successful or not. It is called from worker
// goroutines and must be safe for concurrent use.
type Sink func(job entity.ProcessJob)
