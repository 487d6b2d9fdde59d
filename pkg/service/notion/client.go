package notion

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/model/config"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

// maxRichTextLength is the per-object content limit of the Notion API
const maxRichTextLength = 2000

// client implements Service interface
type client struct {
	api        *notionapi.Client
	schema     *config.TaskSchema
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithSchema sets the task database schema. DefaultTaskSchema is used otherwise.
func WithSchema(schema *config.TaskSchema) Option {
	return func(c *client) {
		c.schema = schema
	}
}

// WithHTTPClient replaces the HTTP client used for Notion API calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new Notion service with the provided API token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}

	c := &client{
		schema: config.DefaultTaskSchema(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.schema.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid task schema")
	}

	apiOpts := []notionapi.ClientOption{
		notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
	}
	if c.httpClient != nil {
		apiOpts = append(apiOpts, notionapi.WithHTTPClient(c.httpClient))
	}
	c.api = notionapi.NewClient(notionapi.Token(token), apiOpts...)

	return c, nil
}

// QueryTasks runs one database query filtered by title and status label
func (c *client) QueryTasks(ctx context.Context, dbID string, title string, status types.TaskStatus) ([]*model.Task, error) {
	label := c.schema.Label(status)
	if label == "" {
		return nil, goerr.New("unknown task status", goerr.V("status", status))
	}

	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), &notionapi.DatabaseQueryRequest{
		Filter: notionapi.AndCompoundFilter{
			&notionapi.PropertyFilter{
				Property: c.schema.Properties.Title,
				RichText: &notionapi.TextFilterCondition{Equals: title},
			},
			c.statusFilter(label),
		},
		Sorts: []notionapi.SortObject{
			{Timestamp: notionapi.TimestampLastEdited, Direction: notionapi.SortOrderDESC},
		},
		PageSize: 100,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query database",
			goerr.V("dbID", dbID), goerr.V("title", title), goerr.V("status", status))
	}
	if resp == nil {
		return nil, goerr.New("empty query response", goerr.V("dbID", dbID))
	}

	tasks := make([]*model.Task, 0, len(resp.Results))
	for i := range resp.Results {
		tasks = append(tasks, c.toTask(&resp.Results[i]))
	}
	return tasks, nil
}

// CreateTask creates a page under the database
func (c *client) CreateTask(ctx context.Context, dbID string, input *TaskInput) (*model.Task, error) {
	label := c.schema.Label(input.Status)
	if label == "" {
		return nil, goerr.New("unknown task status", goerr.V("status", input.Status))
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: notionapi.Properties{
			c.schema.Properties.Title: notionapi.TitleProperty{
				Title: toRichText(input.Title),
			},
			c.schema.Properties.Description: notionapi.RichTextProperty{
				RichText: toRichText(input.Description),
			},
			c.schema.Properties.Status: c.statusProperty(label),
		},
	}
	if c.schema.Page.Icon != "" {
		emoji := notionapi.Emoji(c.schema.Page.Icon)
		req.Icon = &notionapi.Icon{Type: "emoji", Emoji: &emoji}
	}

	page, err := c.api.Page.Create(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create page", goerr.V("dbID", dbID), goerr.V("title", input.Title))
	}

	return c.toTask(page), nil
}

// UpdateTaskDescription patches only the description property
func (c *client) UpdateTaskDescription(ctx context.Context, pageID string, description string) (*model.Task, error) {
	page, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			c.schema.Properties.Description: notionapi.RichTextProperty{
				RichText: toRichText(description),
			},
		},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update page", goerr.V("pageID", pageID))
	}

	return c.toTask(page), nil
}

// toTask converts a page into a task using the schema. Missing or unexpected
// properties leave the corresponding fields empty.
func (c *client) toTask(page *notionapi.Page) *model.Task {
	if page == nil {
		return &model.Task{}
	}

	task := &model.Task{
		ID:             page.ID.String(),
		URL:            page.URL,
		LastEditedTime: time.Time(page.LastEditedTime),
	}

	for name, prop := range page.Properties {
		switch name {
		case c.schema.Properties.Title:
			task.Title = titleText(prop)
		case c.schema.Properties.Description:
			task.Description = richTextText(prop)
		case c.schema.Properties.Status:
			if status, ok := c.schema.StatusOf(statusName(prop)); ok {
				task.Status = status
			}
		}
	}

	return task
}

func titleText(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return plainText(p.Title)
	case notionapi.TitleProperty:
		return plainText(p.Title)
	}
	return ""
}

func richTextText(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.RichTextProperty:
		return plainText(p.RichText)
	case notionapi.RichTextProperty:
		return plainText(p.RichText)
	}
	return ""
}

func (c *client) statusFilter(label string) *notionapi.PropertyFilter {
	if c.schema.Properties.StatusType == config.StatusTypeStatus {
		return &notionapi.PropertyFilter{
			Property: c.schema.Properties.Status,
			Status:   &notionapi.StatusFilterCondition{Equals: label},
		}
	}
	return &notionapi.PropertyFilter{
		Property: c.schema.Properties.Status,
		Select:   &notionapi.SelectFilterCondition{Equals: label},
	}
}

func (c *client) statusProperty(label string) notionapi.Property {
	if c.schema.Properties.StatusType == config.StatusTypeStatus {
		return notionapi.StatusProperty{
			Type:   notionapi.PropertyTypeStatus,
			Status: notionapi.Status{Name: label},
		}
	}
	return notionapi.SelectProperty{
		Type:   notionapi.PropertyTypeSelect,
		Select: notionapi.Option{Name: label},
	}
}

// statusName reads the option name of either a select or a status property
func statusName(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.SelectProperty:
		return p.Select.Name
	case notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.StatusProperty:
		return p.Status.Name
	case notionapi.StatusProperty:
		return p.Status.Name
	}
	return ""
}

func plainText(rts []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range rts {
		switch {
		case rt.PlainText != "":
			sb.WriteString(rt.PlainText)
		case rt.Text != nil:
			sb.WriteString(rt.Text.Content)
		}
	}
	return sb.String()
}

// toRichText splits s into rich text objects within the API content limit
func toRichText(s string) []notionapi.RichText {
	runes := []rune(s)
	if len(runes) == 0 {
		return []notionapi.RichText{}
	}

	var result []notionapi.RichText
	for start := 0; start < len(runes); start += maxRichTextLength {
		end := min(start+maxRichTextLength, len(runes))
		result = append(result, notionapi.RichText{
			Text: &notionapi.Text{Content: string(runes[start:end])},
		})
	}
	return result
}
