package slack

import (
	"fmt"
	"unicode/utf8"

	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/slack-go/slack"
)

// maxPreviewBytes keeps the message preview well under the 3000 character section text limit
const maxPreviewBytes = 1500

// BuildTaskCreatedMessage returns blocks and fallback text announcing a new task
func BuildTaskCreatedMessage(task *model.Task) ([]slack.Block, string) {
	title := task.Title
	if task.URL != "" {
		title = fmt.Sprintf("<%s|%s>", task.URL, task.Title)
	}

	header := ":inbox_tray: New Instagram message"
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, header, false, false), nil, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "*Task:* "+title, false, false), nil, nil),
	}

	if preview := truncateToMaxBytes(task.Description, maxPreviewBytes); preview != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.PlainTextType, preview, false, false),
		))
	}

	return blocks, fmt.Sprintf("New task: %s", task.Title)
}

// truncateToMaxBytes cuts s to at most maxBytes, ellipsis included, without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, maxBytes int) string {
	const ellipsis = "…"
	if len(s) <= maxBytes {
		return s
	}

	suffix := ellipsis
	cut := maxBytes - len(ellipsis)
	if cut < 0 {
		suffix = ""
		cut = max(maxBytes, 0)
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + suffix
}
