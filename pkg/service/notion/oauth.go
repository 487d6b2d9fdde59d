package notion

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

const authorizeEndpoint = "https://api.notion.com/v1/oauth/authorize"

type oauthClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
	now          func() time.Time
}

// OAuthOption is a functional option for the OAuth client
type OAuthOption func(*oauthClient)

// WithOAuthHTTPClient replaces the HTTP client used for the token exchange
func WithOAuthHTTPClient(hc *http.Client) OAuthOption {
	return func(c *oauthClient) {
		c.httpClient = hc
	}
}

// NewOAuth creates an OAuthService for a Notion public integration
func NewOAuth(clientID, clientSecret, redirectURI string, opts ...OAuthOption) (OAuthService, error) {
	if clientID == "" || clientSecret == "" || redirectURI == "" {
		return nil, goerr.New("Notion OAuth client ID, client secret and redirect URI are required")
	}

	c := &oauthClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *oauthClient) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("response_type", "code")
	params.Set("owner", "user")
	params.Set("redirect_uri", c.redirectURI)
	params.Set("state", state)

	return authorizeEndpoint + "?" + params.Encode()
}

func (c *oauthClient) ExchangeCode(ctx context.Context, code string) (*model.Credential, error) {
	if code == "" {
		return nil, goerr.New("authorization code is empty")
	}

	apiOpts := []notionapi.ClientOption{
		notionapi.WithOAuthAppCredentials(c.clientID, c.clientSecret),
	}
	if c.httpClient != nil {
		apiOpts = append(apiOpts, notionapi.WithHTTPClient(c.httpClient))
	}
	api := notionapi.NewClient("", apiOpts...)

	resp, err := api.Authentication.CreateToken(ctx, &notionapi.TokenCreateRequest{
		Code:        code,
		GrantType:   "authorization_code",
		RedirectUri: c.redirectURI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange Notion authorization code")
	}
	if resp == nil || resp.AccessToken == "" || resp.BotId == "" {
		return nil, goerr.New("Notion token response lacks access token or bot id")
	}

	now := c.now()
	return &model.Credential{
		BotID:         types.BotID(resp.BotId),
		AccessToken:   resp.AccessToken,
		WorkspaceID:   resp.WorkspaceId,
		WorkspaceName: resp.WorkspaceName,
		WorkspaceIcon: resp.WorkspaceIcon,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
