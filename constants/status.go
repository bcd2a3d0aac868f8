package constants

// JobStatus is the lifecycle state of a document in the batch queue.
type JobStatus string

const (
	JobStatusQueued  JobStatus = "QUEUED"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusDone    JobStatus = "DONE"
	JobStatusFailed  JobStatus = "FAILED"
)
