package instagram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/utils/safe"
)

const (
	// DefaultBaseURL is the Instagram Graph API endpoint
	DefaultBaseURL = "https://graph.instagram.com"

	defaultTimeout = 10 * time.Second

	// maxResponseSize limits the user info response body
	maxResponseSize = 1 << 20
)

// client implements Service interface
type client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL overrides the Graph API endpoint
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new Instagram Graph API service. An empty access token is accepted; every
// lookup then fails upstream and callers fall back to the raw sender ID.
func New(accessToken string, opts ...Option) Service {
	c := &client{
		accessToken: accessToken,
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// GetUser issues GET /{userID}?fields=username,name
func (c *client) GetUser(ctx context.Context, userID string) (*model.Sender, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	params := url.Values{}
	params.Set("fields", "username,name")
	params.Set("access_token", c.accessToken)
	endpoint := c.baseURL + "/" + url.PathEscape(userID) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("user_id", userID))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call Instagram Graph API", goerr.V("user_id", userID))
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response", goerr.V("user_id", userID))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		return nil, goerr.New("Instagram Graph API returned error",
			goerr.V("user_id", userID),
			goerr.V("status", resp.StatusCode),
			goerr.V("error_type", apiErr.Error.Type),
			goerr.V("error_code", apiErr.Error.Code),
			goerr.V("error_message", apiErr.Error.Message))
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user info", goerr.V("user_id", userID))
	}

	return &model.Sender{
		ID:       userID,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}
