package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsense/constants"
	"github.com/joseph-ayodele/docsense/internal/common"
	"github.com/joseph-ayodele/docsense/internal/core"
	"github.com/joseph-ayodele/docsense/internal/entity"
)

type processFunc func(text string, tablesHTML []string) entity.StructuredResult

func (f processFunc) Process(text string, tablesHTML []string) entity.StructuredResult {
	return f(text, tablesHTML)
}

func newDoc(text string) *entity.Document {
	return &entity.Document{ID: uuid.New(), SourcePath: "/tmp/doc.txt", Text: text}
}

func TestProcessDocument(t *testing.T) {
	p := NewProcessor(nil, core.NewProcessor(nil))
	doc := newDoc("Invoice Number: INV-7\nTotal Due: $20.00")
	jobID := uuid.New()

	job, err := p.ProcessDocument(context.Background(), jobID, doc)
	require.NoError(t, err)
	assert.Equal(t, jobID, job.ID)
	assert.Equal(t, doc.ID, job.DocumentID)
	assert.Equal(t, doc.SourcePath, job.SourcePath)
	assert.Equal(t, constants.JobStatusDone, job.Status)
	require.NotNil(t, job.FinishedAt)
	require.NotNil(t, job.Result)
	assert.Equal(t, constants.Invoice, job.Result.DocumentType)
	assert.Empty(t, job.ErrorCode)
}

func TestProcessDocumentFailures(t *testing.T) {
	t.Run("panic becomes internal error", func(t *testing.T) {
		p := NewProcessor(nil, processFunc(func(string, []string) entity.StructuredResult {
			panic("boom")
		}))
		job, err := p.ProcessDocument(context.Background(), uuid.New(), newDoc("x"))
		require.Error(t, err)
		assert.True(t, common.IsCode(err, common.CodeInternal))
		assert.Equal(t, constants.JobStatusFailed, job.Status)
		assert.Equal(t, common.CodeInternal, job.ErrorCode)
		assert.Contains(t, job.ErrorMessage, "boom")
		assert.Nil(t, job.Result)
	})

	t.Run("deadline", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		p := NewProcessor(nil, processFunc(func(string, []string) entity.StructuredResult {
			<-release
			return entity.EmptyResult("")
		}))
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		job, err := p.ProcessDocument(ctx, uuid.New(), newDoc("x"))
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, common.CodeTimeout, job.ErrorCode)
	})

	t.Run("nil document", func(t *testing.T) {
		p := NewProcessor(nil, core.NewProcessor(nil))
		job, err := p.ProcessDocument(context.Background(), uuid.New(), nil)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
		assert.Equal(t, constants.JobStatusFailed, job.Status)
	})
}
