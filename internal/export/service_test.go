package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docsense/constants"
	"github.com/joseph-ayodele/docsense/internal/entity"
)

func sampleJobs() []entity.ProcessJob {
	now := time.Now().UTC()
	return []entity.ProcessJob{
		{
			ID:         uuid.New(),
			SourcePath: "/docs/inv.txt",
			Status:     constants.JobStatusDone,
			StartedAt:  now,
			FinishedAt: &now,
			Result: &entity.StructuredResult{
				DocumentType:       constants.Invoice,
				Confidence:         0.72,
				Language:           constants.English,
				LanguageConfidence: 0.24,
				Schema:             "invoice",
				ExtractedFields: map[string]any{
					"invoice_number": "12345",
					"bill_to":        map[string]any{"name": "Adam Hart"},
				},
				LineItems: []entity.LineItem{{Description: "Widget A", Quantity: "5", UnitPrice: "$10.00", Amount: "$50.00"}},
				Entities:  []entity.Entity{{Type: "email", Value: "a@b.co", Offset: 3}},
			},
		},
		{
			ID:           uuid.New(),
			SourcePath:   "/docs/bad.txt",
			Status:       constants.JobStatusFailed,
			StartedAt:    now,
			ErrorCode:    "TIMEOUT",
			ErrorMessage: "TIMEOUT: processing deadline exceeded",
		},
	}
}

func TestExportJobsXLSX(t *testing.T) {
	s := NewService(nil)
	b, err := s.ExportJobsXLSX(context.Background(), sampleJobs())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetDocuments, SheetFields, SheetLineItems, SheetEntities}, f.GetSheetList())

	docs, err := f.GetRows(SheetDocuments)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "Job ID", docs[0][0])
	assert.Equal(t, "/docs/inv.txt", docs[1][1])
	assert.Equal(t, "invoice", docs[1][3])
	assert.Equal(t, "FAILED", docs[2][2])
	assert.Equal(t, "TIMEOUT", docs[2][11])

	fields, err := f.GetRows(SheetFields)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, []string{"/docs/inv.txt", "bill_to.name", "Adam Hart"}, fields[1])
	assert.Equal(t, []string{"/docs/inv.txt", "invoice_number", "12345"}, fields[2])

	items, err := f.GetRows(SheetLineItems)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Widget A", items[1][1])
	assert.Equal(t, "$50.00", items[1][5])

	ents, err := f.GetRows(SheetEntities)
	require.NoError(t, err)
	require.Len(t, ents, 2)
	assert.Equal(t, []string{"/docs/inv.txt", "email", "a@b.co", "3"}, ents[1])
}

func TestWriteJobsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, NewService(nil).WriteJobsXLSX(context.Background(), path, sampleJobs()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), SheetEntities)
}

func TestFlattenFields(t *testing.T) {
	got := FlattenFields(map[string]any{
		"total":   "10.00",
		"patient": map[string]any{"name": "Jane", "id": "P-1"},
		"count":   3,
	})
	assert.Equal(t, map[string]string{
		"total":        "10.00",
		"patient.name": "Jane",
		"patient.id":   "P-1",
		"count":        "3",
	}, got)
	assert.Empty(t, FlattenFields(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
