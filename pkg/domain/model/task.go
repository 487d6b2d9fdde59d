package model

import (
	"time"

	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

// Task is a task record stored as a page in the Notion task database
type Task struct {
	ID             string
	Title          string
	Description    string
	Status         types.TaskStatus
	URL            string
	LastEditedTime time.Time
}

// Matches reports whether the task has exactly this title and status.
// Titles are compared byte for byte.
func (t *Task) Matches(title string, status types.TaskStatus) bool {
	return t != nil && t.Title == title && t.Status == status
}

// HandleResult is the outcome reported by the webhook dispatcher
type HandleResult string

const (
	HandleResultSuccess    HandleResult = "Success"
	HandleResultNoMessages HandleResult = "No messages found"
)

func (r HandleResult) String() string {
	return string(r)
}
