package ingest

import (
	"context"
	"time"

	"github.com/joseph-ayodele/docsense/internal/entity"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	DocumentID   string
	Deduplicated bool
	HashHex      string
	FileExt      string
	IngestedAt   time.Time
	Err          string

	// Document is nil when ingestion failed.
	Document *entity.Document
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Ingestor is the behavior the batch driver depends on.
type Ingestor interface {
	// IngestPath a single path.
	IngestPath(ctx context.Context, path string) (IngestionResult, error)
	// IngestDirectory ingests all matching files under root.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}
