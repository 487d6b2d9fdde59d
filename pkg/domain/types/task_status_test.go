package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

func TestTaskStatusIsOpen(t *testing.T) {
	tests := []struct {
		name   string
		status types.TaskStatus
		open   bool
	}{
		{name: "not started", status: types.TaskStatusNotStarted, open: true},
		{name: "in progress", status: types.TaskStatusInProgress, open: true},
		{name: "completed", status: types.TaskStatusCompleted, open: false},
		{name: "empty", status: "", open: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.status.IsOpen()).Equal(tt.open)
		})
	}
}

func TestOpenTaskStatusesOrder(t *testing.T) {
	statuses := types.OpenTaskStatuses()
	gt.Array(t, statuses).Length(2).Required()
	gt.Value(t, statuses[0]).Equal(types.TaskStatusNotStarted)
	gt.Value(t, statuses[1]).Equal(types.TaskStatusInProgress)
}
