package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is one OCR output picked up by the batch driver.
type Document struct {
	ID          uuid.UUID `json:"id"`
	SourcePath  string    `json:"source_path"`
	ContentHash []byte    `json:"content_hash"`
	Filename    string    `json:"filename"`
	FileExt     string    `json:"file_ext"`
	FileSize    int       `json:"file_size"`
	Text        string    `json:"-"`
	TablesHTML  []string  `json:"-"`
	TablesPath  string    `json:"tables_path,omitempty"`
	IngestedAt  time.Time `json:"ingested_at"`
}
