// Package runtime defines the contracts between channel transports and the
// conversation core, plus the sequential dispatcher that guarantees turns
// are applied one at a time.
package runtime

import "context"

// Message is one inbound user turn delivered by a channel transport.
type Message struct {
	Text   string
	Sender string
}

// ResponseWriter sends replies back to the channel the turn arrived on.
type ResponseWriter interface {
	WriteMessage(ctx context.Context, text string) error
}

// Handler processes inbound turns and writes replies.
type Handler interface {
	HandleMessage(ctx context.Context, w ResponseWriter, msg *Message) error
}

// Listener receives channel input and feeds it to a Handler.
type Listener interface {
	Listen(ctx context.Context, handler Handler) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, w ResponseWriter, msg *Message) error

// HandleMessage calls f.
func (f HandlerFunc) HandleMessage(ctx context.Context, w ResponseWriter, msg *Message) error {
	return f(ctx, w, msg)
}
