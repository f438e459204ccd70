package slackchat

import (
	"github.com/slack-go/slack"

	"github.com/relayline/relayline/internal/bridge"
)

// BuildResponsePicker renders the canned-response picker: a prompt, one
// section per response with a send button carrying the response id, and a
// dismiss row.
func BuildResponsePicker(responses []bridge.CannedResponse) []slack.Block {
	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "*Please choose a response*", false, false),
			nil, nil,
		),
		slack.NewDividerBlock(),
	}

	for _, resp := range responses {
		sendButton := slack.NewButtonBlockElement(
			ActionSendResponse,
			resp.ID,
			slack.NewTextBlockObject(slack.PlainTextType, "Send :incoming_envelope:", true, false),
		)
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, resp.Message, false, false),
			nil,
			slack.NewAccessory(sendButton),
		))
	}

	dismissButton := slack.NewButtonBlockElement(
		ActionDismiss,
		ActionDismiss,
		slack.NewTextBlockObject(slack.PlainTextType, "Dismiss", true, false),
	)
	blocks = append(blocks,
		slack.NewDividerBlock(),
		slack.NewActionBlock("", dismissButton),
	)
	return blocks
}
