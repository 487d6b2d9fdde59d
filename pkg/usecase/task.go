package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
	"github.com/secmon-lab/instanotion/pkg/service/notion"
	slacksvc "github.com/secmon-lab/instanotion/pkg/service/slack"
	"github.com/secmon-lab/instanotion/pkg/utils/errutil"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
)

// TaskUseCase finds, writes and synchronizes task records in the Notion task database
type TaskUseCase struct {
	notion       notion.Service
	dbID         string
	slackService slacksvc.Service
	slackChannel string
	locks        *keyedMutex
}

// TaskOption is a functional option for TaskUseCase
type TaskOption func(*TaskUseCase)

// WithTaskNotifier posts a Slack message to channelID after each task creation
func WithTaskNotifier(svc slacksvc.Service, channelID string) TaskOption {
	return func(uc *TaskUseCase) {
		uc.slackService = svc
		uc.slackChannel = channelID
	}
}

func NewTaskUseCase(notionService notion.Service, dbID string, opts ...TaskOption) *TaskUseCase {
	uc := &TaskUseCase{
		notion: notionService,
		dbID:   dbID,
		locks:  newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Find returns records whose title and status exactly equal the arguments, most recently
// edited first. Query failures are logged and reported as no matches.
func (uc *TaskUseCase) Find(ctx context.Context, title string, status types.TaskStatus) []*model.Task {
	tasks, err := uc.notion.QueryTasks(ctx, uc.dbID, title, status)
	if err != nil {
		logging.From(ctx).Warn("failed to query tasks, treating as no match",
			TitleKey, title,
			"status", status,
			"error", err.Error(),
		)
		return nil
	}

	var matched []*model.Task
	for _, task := range tasks {
		if task.Matches(title, status) {
			matched = append(matched, task)
		}
	}
	return matched
}

// Create adds a not-started task record
func (uc *TaskUseCase) Create(ctx context.Context, title, description string) (*model.Task, error) {
	task, err := uc.notion.CreateTask(ctx, uc.dbID, &notion.TaskInput{
		Title:       title,
		Description: description,
		Status:      types.TaskStatusNotStarted,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task", goerr.V(TitleKey, title))
	}

	logging.From(ctx).Info("task created", PageIDKey, task.ID, TitleKey, title)
	uc.notifyCreated(ctx, task)
	return task, nil
}

// Update replaces the description of an existing task record
func (uc *TaskUseCase) Update(ctx context.Context, pageID, description string) (*model.Task, error) {
	task, err := uc.notion.UpdateTaskDescription(ctx, pageID, description)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V(PageIDKey, pageID))
	}

	logging.From(ctx).Info("task updated", PageIDKey, pageID)
	return task, nil
}

// Upsert updates the most recently edited open record with this title, preferring not-started
// over in-progress, or creates a new one when there is none. Calls for the same title are
// serialized within the process.
func (uc *TaskUseCase) Upsert(ctx context.Context, title, description string) (*model.Task, error) {
	unlock := uc.locks.Lock(title)
	defer unlock()

	for _, status := range types.OpenTaskStatuses() {
		if found := uc.Find(ctx, title, status); len(found) > 0 {
			return uc.Update(ctx, found[0].ID, description)
		}
	}

	return uc.Create(ctx, title, description)
}

func (uc *TaskUseCase) notifyCreated(ctx context.Context, task *model.Task) {
	if uc.slackService == nil || uc.slackChannel == "" {
		return
	}

	blocks, text := slacksvc.BuildTaskCreatedMessage(task)
	if _, err := uc.slackService.PostMessage(ctx, uc.slackChannel, blocks, text); err != nil {
		errutil.Handle(ctx, err, "failed to post Slack notification for task")
	}
}
