package model

// TaskStatus represents the status of a single fetch in a batch
type TaskStatus string

const (
	// TaskStatusPending means the fetch is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means extraction or tagging is in progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusCompleted means the MP3 was written
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the fetch failed
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the fetch is running
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading
}

// IsFinished returns true if the fetch reached a terminal state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}

// FailureKind classifies why a fetch or tag write failed
type FailureKind string

const (
	FailureExtraction        FailureKind = "ExtractionFailure"
	FailureMissingOutputFile FailureKind = "MissingOutputFile"
	FailureInvalidOutputFile FailureKind = "InvalidOutputFile"
	FailureTagWrite          FailureKind = "TagWriteFailure"
)

func (k FailureKind) String() string {
	return string(k)
}
