package bot

import "context"

// Message is one inbound chat message.
type Message struct {
	ChatID string
	Text   string
	// FromSelf marks messages authored by the bot's own account; the
	// handler ignores these to avoid reply loops.
	FromSelf bool
}

// Transport delivers outbound replies. The chat connection lifecycle
// (login, reconnects) is owned by the implementation.
type Transport interface {
	// SendText delivers a plain text reply.
	SendText(ctx context.Context, chatID, text string) error

	// SendImage delivers a PNG image with a caption.
	SendImage(ctx context.Context, chatID string, png []byte, caption string) error
}
