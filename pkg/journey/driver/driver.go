// Package driver abstracts the chat web UI the automator steers. The
// automator only needs these capabilities, so tests can swap in a fake.
package driver

import "context"

// Message is a snapshot of one message in the channel.
type Message struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Links []string `json:"links"`
}

type Driver interface {
	Authenticate(ctx context.Context, email string, password string) error
	Navigate(ctx context.Context, channelUrl string) error
	SendMessage(ctx context.Context, text string) error
	// LatestMessage returns nil when the channel has no messages yet.
	LatestMessage(ctx context.Context) (*Message, error)
	Attachments(ctx context.Context, messageId string) ([]string, error)
	Close() error
}
