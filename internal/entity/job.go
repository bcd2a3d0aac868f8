package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsense/constants"
)

// ProcessJob tracks one document through the batch pipeline.
type ProcessJob struct {
	ID           uuid.UUID           `json:"id"`
	DocumentID   uuid.UUID           `json:"document_id"`
	SourcePath   string              `json:"source_path"`
	Status       constants.JobStatus `json:"status"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   *time.Time          `json:"finished_at,omitempty"`
	ErrorCode    string              `json:"error_code,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Result       *StructuredResult   `json:"result,omitempty"`
}
