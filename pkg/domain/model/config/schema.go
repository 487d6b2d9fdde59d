package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

// TaskSchema describes how task records map onto the Notion database
type TaskSchema struct {
	Properties PropertyNames `toml:"properties"`
	Status     StatusLabels  `toml:"status"`
	Page       PageSettings  `toml:"page"`
}

// Notion property types accepted for the status property
const (
	StatusTypeSelect = "select"
	StatusTypeStatus = "status"
)

// PropertyNames holds the Notion property names of the task database
type PropertyNames struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Status      string `toml:"status"`
	// StatusType is the Notion type of the status property, "select" or "status"
	StatusType string `toml:"status_type"`
}

// StatusLabels holds the select option names used for each task status
type StatusLabels struct {
	NotStarted string `toml:"not_started"`
	InProgress string `toml:"in_progress"`
	Completed  string `toml:"completed"`
}

// PageSettings holds presentation settings of newly created task pages
type PageSettings struct {
	Icon        string `toml:"icon"`
	TitleSuffix string `toml:"title_suffix"`
}

// DefaultTaskSchema returns the default schema. The status property is a select.
func DefaultTaskSchema() *TaskSchema {
	return &TaskSchema{
		Properties: PropertyNames{
			Title:       "Name",
			Description: "Description",
			Status:      "Status",
			StatusType:  StatusTypeSelect,
		},
		Status: StatusLabels{
			NotStarted: "Not started",
			InProgress: "In progress",
			Completed:  "Done",
		},
		Page: PageSettings{
			Icon:        "😀",
			TitleSuffix: " replies",
		},
	}
}

// MergeDefaults fills empty fields with the default schema
func (s *TaskSchema) MergeDefaults() {
	d := DefaultTaskSchema()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&s.Properties.Title, d.Properties.Title)
	fill(&s.Properties.Description, d.Properties.Description)
	fill(&s.Properties.Status, d.Properties.Status)
	fill(&s.Properties.StatusType, d.Properties.StatusType)
	fill(&s.Status.NotStarted, d.Status.NotStarted)
	fill(&s.Status.InProgress, d.Status.InProgress)
	fill(&s.Status.Completed, d.Status.Completed)
	fill(&s.Page.TitleSuffix, d.Page.TitleSuffix)
	// empty icon is allowed and means "no icon"
}

// Validate checks the schema is usable
func (s *TaskSchema) Validate() error {
	props := map[string]string{
		"title":       s.Properties.Title,
		"description": s.Properties.Description,
		"status":      s.Properties.Status,
	}
	for key, name := range props {
		if name == "" {
			return goerr.New("property name is required", goerr.V("property", key))
		}
	}
	if s.Properties.Title == s.Properties.Description ||
		s.Properties.Title == s.Properties.Status ||
		s.Properties.Description == s.Properties.Status {
		return goerr.New("property names must be distinct", goerr.V("properties", s.Properties))
	}

	switch s.Properties.StatusType {
	case StatusTypeSelect, StatusTypeStatus:
	default:
		return goerr.New("status property type must be select or status", goerr.V("status_type", s.Properties.StatusType))
	}

	seen := make(map[string]types.TaskStatus)
	for _, status := range types.AllTaskStatuses() {
		label := s.Label(status)
		if label == "" {
			return goerr.New("status label is required", goerr.V("status", status))
		}
		if prev, ok := seen[label]; ok {
			return goerr.New("status labels must be distinct",
				goerr.V("label", label), goerr.V("status", status), goerr.V("conflict", prev))
		}
		seen[label] = status
	}

	if s.Page.TitleSuffix == "" {
		return goerr.New("title suffix is required")
	}

	return nil
}

// Label returns the Notion select option name for status
func (s *TaskSchema) Label(status types.TaskStatus) string {
	switch status {
	case types.TaskStatusNotStarted:
		return s.Status.NotStarted
	case types.TaskStatusInProgress:
		return s.Status.InProgress
	case types.TaskStatusCompleted:
		return s.Status.Completed
	default:
		return ""
	}
}

// StatusOf maps a Notion select option name back to a task status.
// Unknown labels yield false.
func (s *TaskSchema) StatusOf(label string) (types.TaskStatus, bool) {
	for _, status := range types.AllTaskStatuses() {
		if s.Label(status) == label {
			return status, true
		}
	}
	return "", false
}

// TaskTitle builds the task title for a sender display name
func (s *TaskSchema) TaskTitle(displayName string) string {
	return displayName + s.Page.TitleSuffix
}
