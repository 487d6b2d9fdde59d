package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
)

func TestMessageSource_String(t *testing.T) {
	gt.Value(t, types.MessageSourceChange.String()).Equal("changes")
	gt.Value(t, types.MessageSourceMessaging.String()).Equal("messaging")
}

func TestBotID_String(t *testing.T) {
	gt.Value(t, types.BotID("bot-1").String()).Equal("bot-1")
}
