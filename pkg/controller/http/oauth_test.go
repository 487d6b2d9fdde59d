package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/instanotion/pkg/controller/http"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/usecase"
)

type mockOAuthUseCase struct {
	LoginFunc    func(ctx context.Context) (string, string, error)
	CallbackFunc func(ctx context.Context, code, state string) (*model.Credential, error)
}

func (m *mockOAuthUseCase) Login(ctx context.Context) (string, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx)
	}
	return "https://api.notion.com/v1/oauth/authorize?state=st", "st", nil
}

func (m *mockOAuthUseCase) Callback(ctx context.Context, code, state string) (*model.Credential, error) {
	if m.CallbackFunc != nil {
		return m.CallbackFunc(ctx, code, state)
	}
	return &model.Credential{BotID: "bot-1", AccessToken: "secret_x", WorkspaceID: "ws-1", WorkspaceName: "Team"}, nil
}

func callback(srv http.Handler, query string, cookieState string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/oauth/notion/callback?"+query, nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: "notion_oauth_state", Value: cookieState})
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestOAuthRoutesDisabled(t *testing.T) {
	srv := httpctrl.New(&mockWebhookUseCase{}, testVerifyToken)

	rec := doRequest(t, srv, http.MethodGet, "/oauth/notion/login", "", nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestOAuthLogin(t *testing.T) {
	srv := httpctrl.New(&mockWebhookUseCase{}, testVerifyToken, httpctrl.WithOAuth(&mockOAuthUseCase{}))

	rec := doRequest(t, srv, http.MethodGet, "/oauth/notion/login", "", nil)
	gt.Value(t, rec.Code).Equal(http.StatusTemporaryRedirect)
	gt.Value(t, rec.Header().Get("Location")).Equal("https://api.notion.com/v1/oauth/authorize?state=st")

	cookies := rec.Result().Cookies()
	gt.Array(t, cookies).Length(1).Required()
	gt.Value(t, cookies[0].Name).Equal("notion_oauth_state")
	gt.Value(t, cookies[0].Value).Equal("st")
	gt.Bool(t, cookies[0].HttpOnly).True()
}

func TestOAuthLogin_Failure(t *testing.T) {
	srv := httpctrl.New(&mockWebhookUseCase{}, testVerifyToken, httpctrl.WithOAuth(&mockOAuthUseCase{
		LoginFunc: func(ctx context.Context) (string, string, error) {
			return "", "", errors.New("entropy exhausted")
		},
	}))

	rec := doRequest(t, srv, http.MethodGet, "/oauth/notion/login", "", nil)
	gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
}

func TestOAuthCallback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotCode, gotState string
		srv := httpctrl.New(&mockWebhookUseCase{}, testVerifyToken, httpctrl.WithOAuth(&mockOAuthUseCase{
			CallbackFunc: func(ctx context.Context, code, state string) (*model.Credential, error) {
				gotCode, gotState = code, state
				return &model.Credential{BotID: "bot-1", AccessToken: "secret_x", WorkspaceID: "ws-1", WorkspaceName: "Team"}, nil
			},
		}))

		rec := callback(srv, "code=abc&state=st", "st")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, gotCode).Equal("abc")
		gt.Value(t, gotState).Equal("st")

		var resp map[string]string
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp["bot_id"]).Equal("bot-1")
		gt.Value(t, resp["workspace_id"]).Equal("ws-1")
		gt.Value(t, resp["workspace_name"]).Equal("Team")
		_, hasToken := resp["access_token"]
		gt.Bool(t, hasToken).False()
	})

	srv := httpctrl.New(&mockWebhookUseCase{}, testVerifyToken, httpctrl.WithOAuth(&mockOAuthUseCase{}))

	t.Run("missing cookie", func(t *testing.T) {
		rec := callback(srv, "code=abc&state=st", "")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("state mismatch", func(t *testing.T) {
		rec := callback(srv, "code=abc&state=forged", "st")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("access denied", func(t *testing.T) {
		rec := callback(srv, "error=access_denied&state=st", "st")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestOAuthCallback_UseCaseErrors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "invalid state", err: goerr.Wrap(usecase.ErrInvalidState, "expired"), wantCode: http.StatusBadRequest},
		{name: "missing code", err: goerr.Wrap(usecase.ErrMissingCode, "no code"), wantCode: http.StatusBadRequest},
		{name: "exchange failure", err: errors.New("invalid_client"), wantCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httpctrl.New(&mockWebhookUseCase{}, testVerifyToken, httpctrl.WithOAuth(&mockOAuthUseCase{
				CallbackFunc: func(ctx context.Context, code, state string) (*model.Credential, error) {
					return nil, tc.err
				},
			}))

			rec := callback(srv, "code=abc&state=st", "st")
			gt.Value(t, rec.Code).Equal(tc.wantCode)
		})
	}
}
