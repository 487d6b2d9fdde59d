package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
	"github.com/secmon-lab/instanotion/pkg/service/notion"
	"github.com/slack-go/slack"
)

// fakeNotion is an in-memory task database. When loose is set, queries ignore the title
// like a fuzzy upstream search would.
type fakeNotion struct {
	mu        sync.Mutex
	pages     []*model.Task
	seq       int
	loose     bool
	queryErr  map[types.TaskStatus]error
	createErr error
	updateErr error

	queries []queryCall
	creates []*notion.TaskInput
	updates []updateCall
}

type queryCall struct {
	DBID   string
	Title  string
	Status types.TaskStatus
}

type updateCall struct {
	PageID      string
	Description string
}

var _ notion.Service = &fakeNotion{}

func newFakeNotion() *fakeNotion {
	return &fakeNotion{queryErr: map[types.TaskStatus]error{}}
}

func (f *fakeNotion) tick() time.Time {
	f.seq++
	return time.Unix(1700000000+int64(f.seq), 0)
}

// seed adds a page directly, bypassing call recording
func (f *fakeNotion) seed(title, description string, status types.TaskStatus) *model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &model.Task{
		ID:             fmt.Sprintf("seed-%d", len(f.pages)+1),
		Title:          title,
		Description:    description,
		Status:         status,
		LastEditedTime: f.tick(),
	}
	f.pages = append(f.pages, page)
	return page
}

func (f *fakeNotion) QueryTasks(ctx context.Context, dbID string, title string, status types.TaskStatus) ([]*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, queryCall{DBID: dbID, Title: title, Status: status})

	if err := f.queryErr[status]; err != nil {
		return nil, err
	}

	var result []*model.Task
	for _, p := range f.pages {
		if p.Status != status {
			continue
		}
		if !f.loose && p.Title != title {
			continue
		}
		copied := *p
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastEditedTime.After(result[j].LastEditedTime)
	})
	return result, nil
}

func (f *fakeNotion) CreateTask(ctx context.Context, dbID string, input *notion.TaskInput) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, input)

	if f.createErr != nil {
		return nil, f.createErr
	}

	page := &model.Task{
		ID:             fmt.Sprintf("page-%d", len(f.pages)+1),
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		URL:            "https://www.notion.so/" + fmt.Sprintf("page-%d", len(f.pages)+1),
		LastEditedTime: f.tick(),
	}
	f.pages = append(f.pages, page)
	copied := *page
	return &copied, nil
}

func (f *fakeNotion) UpdateTaskDescription(ctx context.Context, pageID string, description string) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{PageID: pageID, Description: description})

	if f.updateErr != nil {
		return nil, f.updateErr
	}

	for _, p := range f.pages {
		if p.ID == pageID {
			p.Description = description
			p.LastEditedTime = f.tick()
			copied := *p
			return &copied, nil
		}
	}
	return nil, goerr.New("page not found", goerr.V("page_id", pageID))
}

func (f *fakeNotion) calls() (queries, creates, updates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries), len(f.creates), len(f.updates)
}

// mockInstagram is a mock implementation of instagram.Service
type mockInstagram struct {
	mu    sync.Mutex
	calls int

	GetUserFunc func(ctx context.Context, userID string) (*model.Sender, error)
}

func (m *mockInstagram) GetUser(ctx context.Context, userID string) (*model.Sender, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, userID)
	}
	return &model.Sender{ID: userID}, nil
}

// mockSlackService is a mock implementation of slack.Service
type mockSlackService struct {
	mu       sync.Mutex
	channels []string
	texts    []string

	PostMessageFunc func(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)
}

func (m *mockSlackService) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	m.mu.Lock()
	m.channels = append(m.channels, channelID)
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	if m.PostMessageFunc != nil {
		return m.PostMessageFunc(ctx, channelID, blocks, text)
	}
	return "1700000000.000100", nil
}

// mockOAuth is a mock implementation of notion.OAuthService
type mockOAuth struct {
	AuthorizeURLFunc func(state string) string
	ExchangeCodeFunc func(ctx context.Context, code string) (*model.Credential, error)
}

func (m *mockOAuth) AuthorizeURL(state string) string {
	if m.AuthorizeURLFunc != nil {
		return m.AuthorizeURLFunc(state)
	}
	return "https://api.notion.com/v1/oauth/authorize?state=" + state
}

func (m *mockOAuth) ExchangeCode(ctx context.Context, code string) (*model.Credential, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return &model.Credential{BotID: "bot-1", AccessToken: "secret_token", WorkspaceID: "ws-1"}, nil
}
