package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/usecase"
	"github.com/secmon-lab/instanotion/pkg/utils/errutil"
	"github.com/secmon-lab/instanotion/pkg/utils/safe"
)

const stateCookieName = "notion_oauth_state"

type credentialResponse struct {
	BotID         string `json:"bot_id"`
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
}

func stateCookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/oauth/notion",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// oauthLoginHandler redirects to the Notion consent screen
func oauthLoginHandler(uc OAuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, state, err := uc.Login(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, stateCookie(r, state, 600)) // 10 minutes
		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	}
}

// oauthCallbackHandler completes the authorization and stores the credential
func oauthCallbackHandler(uc OAuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()

		if oauthErr := q.Get("error"); oauthErr != "" {
			errutil.HandleHTTP(ctx, w, goerr.New("authorization was not granted", goerr.V("error", oauthErr)), http.StatusBadRequest)
			return
		}

		cookie, err := r.Cookie(stateCookieName)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "state cookie is missing"), http.StatusBadRequest)
			return
		}

		state := q.Get("state")
		if state == "" || state != cookie.Value {
			errutil.HandleHTTP(ctx, w, goerr.New("invalid state parameter"), http.StatusBadRequest)
			return
		}

		http.SetCookie(w, stateCookie(r, "", -1))

		cred, err := uc.Callback(ctx, q.Get("code"), state)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, usecase.ErrInvalidState) || errors.Is(err, usecase.ErrMissingCode) {
				status = http.StatusBadRequest
			}
			errutil.HandleHTTP(ctx, w, err, status)
			return
		}

		data, err := json.Marshal(credentialResponse{
			BotID:         cred.BotID.String(),
			WorkspaceID:   cred.WorkspaceID,
			WorkspaceName: cred.WorkspaceName,
		})
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal credential response"), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		safe.Write(ctx, w, data)
	}
}
