package messenger

import "context"

// ParseMode selects the text formatting of an outgoing message.
type ParseMode string

const (
	ParseModeNone     ParseMode = ""
	ParseModeMarkdown ParseMode = "Markdown"
	ParseModeHTML     ParseMode = "HTML"
)

// Options control formatting of a single outgoing message.
type Options struct {
	ParseMode ParseMode
	// NoLinkPreview suppresses the link preview; set on every message
	// that carries a meeting link.
	NoLinkPreview bool
}

// Messenger is the narrow messaging boundary the bot core talks to.
// Keyboards stay inside the conversation handlers; services and the
// notifier only ever send plain text.
type Messenger interface {
	// SendDirect delivers a message to one person's chat.
	SendDirect(ctx context.Context, chatID int64, text string, opts Options) error
	// SendToChannel posts to the configured announcement channel.
	SendToChannel(ctx context.Context, text string, opts Options) error
}
