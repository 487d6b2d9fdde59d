package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/utils/errutil"
	"github.com/secmon-lab/instanotion/pkg/utils/safe"
)

const hubSignatureHeader = "X-Hub-Signature-256"

// verifyHubSignature checks a "sha256=<hex>" HMAC of body keyed by the app secret
func verifyHubSignature(appSecret, signature string, body []byte) error {
	if signature == "" {
		return goerr.New("missing signature")
	}

	hexSig, ok := strings.CutPrefix(signature, "sha256=")
	if !ok {
		return goerr.New("unsupported signature format", goerr.V("signature", signature))
	}
	got, err := hex.DecodeString(hexSig)
	if err != nil {
		return goerr.Wrap(err, "invalid signature encoding")
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	if _, err := mac.Write(body); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}

	if !hmac.Equal(mac.Sum(nil), got) {
		return goerr.New("signature mismatch")
	}
	return nil
}

// HubSignatureMiddleware rejects requests whose X-Hub-Signature-256 does not match the body
func HubSignatureMiddleware(appSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, status, err := readWebhookBody(w, r)
			if err != nil {
				errutil.HandleHTTP(ctx, w, err, status)
				return
			}
			safe.Close(ctx, r.Body)

			if err := verifyHubSignature(appSecret, r.Header.Get(hubSignatureHeader), body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "webhook signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
