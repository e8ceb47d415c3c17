package communication

import (
	"fmt"

	"github.com/slack-go/slack"
)

type poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

type Slack struct {
	client  poster
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

func NewSlack(token string, options SlackOption) *Slack {
	return &Slack{client: slack.New(token), options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(message string) error {
	return s.postMessage(s.options.InfoChannelID, message)
}

func (s *Slack) Error(message string) error {
	return s.postMessage(s.options.ErrorChannelID, message)
}

// Discard drops every message. It stands in when Slack is not configured.
type Discard struct{}

func (Discard) Info(string) error  { return nil }
func (Discard) Error(string) error { return nil }
