package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsense/constants"
	"github.com/joseph-ayodele/docsense/internal/common"
	"github.com/joseph-ayodele/docsense/internal/entity"
)

// StructuredProcessor turns OCR text plus table fragments into a StructuredResult.
// *core.Processor satisfies it.
type StructuredProcessor interface {
	Process(text string, tablesHTML []string) entity.StructuredResult
}

// Processor runs ingested documents through a StructuredProcessor under a context,
// turning panics and deadlines into job errors.
type Processor struct {
	logger *slog.Logger
	proc   StructuredProcessor
}

func NewProcessor(logger *slog.Logger, proc StructuredProcessor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, proc: proc}
}

type outcome struct {
	res entity.StructuredResult
	err error
}

// ProcessDocument processes doc and returns the finished job. The returned error
// is also recorded on the job as ErrorCode/ErrorMessage.
func (p *Processor) ProcessDocument(ctx context.Context, jobID uuid.UUID, doc *entity.Document) (entity.ProcessJob, error) {
	job := entity.ProcessJob{
		ID:        jobID,
		Status:    constants.JobStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if doc == nil {
		err := common.NewAppError(common.CodeInvalidInput, "document is required", common.ErrInvalidInput)
		return finish(job, nil, err), err
	}
	job.DocumentID = doc.ID
	job.SourcePath = doc.SourcePath
	ctx = common.WithDocumentID(ctx, doc.ID.String())

	if err := ctx.Err(); err != nil {
		err = timeoutError(err)
		p.logger.Error("pipeline.process.failed", "job_id", jobID, "document_id", common.DocumentIDFromContext(ctx), "err", err)
		return finish(job, nil, err), err
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: common.InternalError(fmt.Sprintf("panic: %v", r), nil)}
			}
		}()
		done <- outcome{res: p.proc.Process(doc.Text, doc.TablesHTML)}
	}()

	var o outcome
	select {
	case o = <-done:
	case <-ctx.Done():
		o.err = timeoutError(ctx.Err())
	}

	if o.err != nil {
		p.logger.Error("pipeline.process.failed",
			"job_id", jobID,
			"document_id", common.DocumentIDFromContext(ctx),
			"path", doc.SourcePath,
			"err", o.err,
		)
		return finish(job, nil, o.err), o.err
	}

	p.logger.Debug("pipeline.process.ok",
		"job_id", jobID,
		"document_id", common.DocumentIDFromContext(ctx),
		"type", o.res.DocumentType,
		"schema", o.res.Schema,
	)
	return finish(job, &o.res, nil), nil
}

func timeoutError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.NewAppError(common.CodeTimeout, "processing deadline exceeded", err)
	}
	return common.NewAppError(common.CodeInternal, "processing cancelled", err)
}

func finish(job entity.ProcessJob, res *entity.StructuredResult, err error) entity.ProcessJob {
	now := time.Now().UTC()
	job.FinishedAt = &now
	if err != nil {
		job.Status = constants.JobStatusFailed
		job.ErrorCode = common.CodeInternal
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			job.ErrorCode = appErr.Code
		}
		job.ErrorMessage = err.Error()
		return job
	}
	job.Status = constants.JobStatusDone
	job.Result = res
	return job
}
