package types

// TaskStatus is the workflow state of a task record
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// AllTaskStatuses returns all valid task statuses
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusNotStarted,
		TaskStatusInProgress,
		TaskStatusCompleted,
	}
}

// OpenTaskStatuses returns the open statuses in the order Upsert looks them up
func OpenTaskStatuses() []TaskStatus {
	var open []TaskStatus
	for _, s := range AllTaskStatuses() {
		if s.IsOpen() {
			open = append(open, s)
		}
	}
	return open
}

// IsOpen reports whether a task in this status may be updated instead of duplicated
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusNotStarted || s == TaskStatusInProgress
}

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	return string(s)
}
