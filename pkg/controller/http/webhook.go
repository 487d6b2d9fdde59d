package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
	"github.com/secmon-lab/instanotion/pkg/service/archive"
	"github.com/secmon-lab/instanotion/pkg/utils/errutil"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
	"github.com/secmon-lab/instanotion/pkg/utils/safe"
)

const (
	rootMessage     = "Instagram to Notion Integration Server"
	eventReceived   = "EVENT_RECEIVED"
	maxWebhookBytes = 1 << 20
)

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte(rootMessage))
}

// webhookVerifyHandler answers the subscription handshake by echoing hub.challenge
func webhookVerifyHandler(verifyToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		mode := q.Get("hub.mode")
		token := q.Get("hub.verify_token")

		if mode != "subscribe" || verifyToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(verifyToken)) != 1 {
			logging.From(r.Context()).Warn("webhook verification rejected", "mode", mode)
			w.WriteHeader(http.StatusForbidden)
			return
		}

		logging.From(r.Context()).Info("webhook verified")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, []byte(q.Get("hub.challenge")))
	}
}

// webhookHandler processes a notification synchronously and acknowledges it
func webhookHandler(webhookUC WebhookUseCase, archiveSvc archive.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := uuid.NewString()
		logger := logging.From(r.Context()).With("event_id", eventID)
		ctx := logging.With(r.Context(), logger)

		body, status, err := readWebhookBody(w, r)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, status)
			return
		}

		var payload model.WebhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse webhook body"), http.StatusBadRequest)
			return
		}

		if payload.Object != types.ObjectTypeInstagram {
			logger.Warn("webhook object not supported", "object", payload.Object)
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if archiveSvc != nil {
			if name, err := archiveSvc.Put(ctx, body); err != nil {
				errutil.Handle(ctx, err, "failed to archive webhook body")
			} else {
				logger.Debug("webhook body archived", "object", name)
			}
		}

		result, err := webhookUC.Handle(ctx, &payload)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to handle webhook"), http.StatusInternalServerError)
			return
		}

		logger.Info("webhook handled", "result", result.String())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		safe.Write(ctx, w, []byte(eventReceived))
	}
}

// readWebhookBody reads the request body up to maxWebhookBytes. It returns the status code to
// answer with when reading fails.
func readWebhookBody(w http.ResponseWriter, r *http.Request) ([]byte, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, goerr.Wrap(err, "request body too large", goerr.V("limit", tooLarge.Limit))
		}
		return nil, http.StatusBadRequest, goerr.Wrap(err, "failed to read request body")
	}
	return body, 0, nil
}
