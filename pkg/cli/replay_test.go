package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/instanotion/pkg/cli"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
)

type handlerFunc func(ctx context.Context, payload *model.WebhookPayload) (model.HandleResult, error)

func (f handlerFunc) Handle(ctx context.Context, payload *model.WebhookPayload) (model.HandleResult, error) {
	return f(ctx, payload)
}

func writePayload(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestReplayFiles(t *testing.T) {
	dir := t.TempDir()
	ok := writePayload(t, dir, "ok.json", `{"object":"instagram","entry":[{"id":"1","messaging":[{"sender":{"id":"42"},"recipient":{"id":"1"},"message":{"mid":"m1","text":"hi"}}]}]}`)
	empty := writePayload(t, dir, "empty.json", `{"object":"instagram","entry":[]}`)

	var seen []int
	handler := handlerFunc(func(ctx context.Context, payload *model.WebhookPayload) (model.HandleResult, error) {
		seen = append(seen, len(payload.Entry))
		if payload.FirstMessage() == nil {
			return model.HandleResultNoMessages, nil
		}
		return model.HandleResultSuccess, nil
	})

	var buf bytes.Buffer
	gt.NoError(t, cli.ReplayFiles(context.Background(), &buf, handler, []string{ok, empty}))
	gt.Value(t, seen).Equal([]int{1, 0})
	gt.String(t, buf.String()).Contains("ok.json: Success")
	gt.String(t, buf.String()).Contains("empty.json: No messages found")
}

func TestReplayFiles_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	broken := writePayload(t, dir, "broken.json", `{"object":`)
	failing := writePayload(t, dir, "failing.json", `{"object":"instagram"}`)
	good := writePayload(t, dir, "good.json", `{"object":"instagram"}`)
	missing := filepath.Join(dir, "missing.json")

	var calls int
	handler := handlerFunc(func(ctx context.Context, payload *model.WebhookPayload) (model.HandleResult, error) {
		calls++
		if calls == 1 {
			return "", errors.New("notion is down")
		}
		return model.HandleResultSuccess, nil
	})

	var buf bytes.Buffer
	err := cli.ReplayFiles(context.Background(), &buf, handler, []string{broken, failing, missing, good})
	gt.Value(t, err).NotNil()
	gt.Number(t, calls).Equal(2)
	gt.String(t, buf.String()).Contains("notion is down")
	gt.String(t, buf.String()).Contains("good.json: Success")
}

func TestReplayFiles_RejectsOtherObjects(t *testing.T) {
	dir := t.TempDir()
	page := writePayload(t, dir, "page.json", `{"object":"page","entry":[]}`)

	var calls int
	handler := handlerFunc(func(ctx context.Context, payload *model.WebhookPayload) (model.HandleResult, error) {
		calls++
		return model.HandleResultSuccess, nil
	})

	var buf bytes.Buffer
	gt.Value(t, cli.ReplayFiles(context.Background(), &buf, handler, []string{page})).NotNil()
	gt.Number(t, calls).Equal(0)
	gt.String(t, buf.String()).Contains("webhook object is not instagram")
}
