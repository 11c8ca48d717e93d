package notification

import (
	"context"
	"errors"

	"advance/internal/models"
)

var (
	// ErrChannelNotConfigured marks a channel without provider credentials.
	ErrChannelNotConfigured = errors.New("channel not configured")

	// ErrNoAddress marks a recipient with no address for the channel.
	ErrNoAddress = errors.New("recipient has no address for channel")

	ErrChannelTimeout = errors.New("channel send timed out")
)

// Sender delivers a message over one channel.
type Sender interface {
	Channel() models.Channel
	Send(ctx context.Context, to Recipient, msg Message) error
}
